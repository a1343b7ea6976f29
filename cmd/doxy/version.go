// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"github.com/pterm/pterm"

	"github.com/doxyproj/doxy/internal/version"
)

// versionCmd prints version information for the running binary.
type versionCmd struct{}

// Run executes doxy version.
func (c *versionCmd) Run(p pterm.TextPrinter) error { //nolint:unparam // kong requires an error return.
	p.Printfln("doxy %s (%s, commit %s)", version.Version(), version.ReleaseTarget(), version.GitCommit())
	return nil
}
