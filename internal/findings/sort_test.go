// Copyright 2025 Upbound Inc.
// All rights reserved

package findings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSort(t *testing.T) {
	mk := func(file string, line, col int, longID string) Finding {
		return Finding{LongID: longID, Location: Location{File: file, Line: line, Column: col}}
	}

	cases := map[string]struct {
		reason string
		in     []Finding
		want   []Finding
	}{
		"ByFile": {
			reason: "Findings in different files order by file path first.",
			in: []Finding{
				mk("b.ts", 1, 1, "z"),
				mk("a.ts", 1, 1, "z"),
			},
			want: []Finding{
				mk("a.ts", 1, 1, "z"),
				mk("b.ts", 1, 1, "z"),
			},
		},
		"ByLineThenColumn": {
			reason: "Within one file, line then column breaks ties.",
			in: []Finding{
				mk("a.ts", 2, 1, "z"),
				mk("a.ts", 1, 5, "z"),
				mk("a.ts", 1, 2, "z"),
			},
			want: []Finding{
				mk("a.ts", 1, 2, "z"),
				mk("a.ts", 1, 5, "z"),
				mk("a.ts", 2, 1, "z"),
			},
		},
		"ByLongIDWhenLocationTies": {
			reason: "Identical locations fall back to longId for a deterministic order.",
			in: []Finding{
				mk("a.ts", 1, 1, "b"),
				mk("a.ts", 1, 1, "a"),
			},
			want: []Finding{
				mk("a.ts", 1, 1, "a"),
				mk("a.ts", 1, 1, "b"),
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			Sort(tc.in)
			if diff := cmp.Diff(tc.want, tc.in); diff != "" {
				t.Errorf("\n%s\nSort(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}
