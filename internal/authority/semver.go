// Copyright 2025 Upbound Inc.
// All rights reserved

package authority

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// coerce parses a possibly-sloppy version string ("18", "v18.2.0",
// "^18.0.0") into a comparable semver.Version, trimming any constraint
// operator prefix so a bound like ">=18.0.0" coerces the same as "18.0.0".
func coerce(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	for _, op := range []string{">=", "<=", ">", "<", "^", "~", "="} {
		s = strings.TrimPrefix(s, op)
	}
	s = strings.TrimSpace(s)
	return semver.NewVersion(s)
}

// availRange is an availability window: [min, max). A zero-value max means
// unbounded.
type availRange struct {
	min *semver.Version
	max *semver.Version
}

// newRange parses an ApiSpec.AvailableIn string of the form ">=X.Y.Z",
// ">=X.Y.Z <R.S.T" (removed at R.S.T), or a bare version, which is read
// as a lower bound like ">=X.Y.Z".
func newRange(s string) (*availRange, error) {
	fields := strings.Fields(s)
	r := &availRange{}
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, ">="):
			v, err := coerce(f)
			if err != nil {
				return nil, err
			}
			r.min = v
		case strings.HasPrefix(f, "<"):
			v, err := coerce(f)
			if err != nil {
				return nil, err
			}
			r.max = v
		default:
			v, err := coerce(f)
			if err != nil {
				return nil, err
			}
			r.min = v
		}
	}
	if r.min == nil {
		v, err := semver.NewVersion("0.0.0")
		if err != nil {
			return nil, err
		}
		r.min = v
	}
	return r, nil
}

// contains reports whether v falls within the range.
func (r *availRange) contains(v *semver.Version) bool {
	if v.LessThan(r.min) {
		return false
	}
	if r.max != nil && !v.LessThan(r.max) {
		return false
	}
	return true
}

// below reports whether v precedes the range's minimum version.
func (r *availRange) below(v *semver.Version) bool {
	return v.LessThan(r.min)
}
