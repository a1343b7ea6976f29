// Copyright 2025 Upbound Inc.
// All rights reserved

package findings

import "sort"

// Sort orders findings by file path, then by (line, column), then by
// longId, so that output is deterministic across runs regardless of the
// order in which analysis visited files or the order cached and fresh
// findings were merged.
func Sort(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		return less(fs[i], fs[j])
	})
}

func less(a, b Finding) bool {
	if a.Location.File != b.Location.File {
		return a.Location.File < b.Location.File
	}
	if a.Location.Line != b.Location.Line {
		return a.Location.Line < b.Location.Line
	}
	if a.Location.Column != b.Location.Column {
		return a.Location.Column < b.Location.Column
	}
	return a.LongID < b.LongID
}
