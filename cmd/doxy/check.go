// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/findings"
	"github.com/doxyproj/doxy/internal/fixer"
	"github.com/doxyproj/doxy/internal/reporter"
)

// checkCmd runs one analysis pass over a project.
type checkCmd struct {
	Root    string   `arg:""  default:"."  help:"Project root to analyze."                                       type:"path"`
	BaseRef string   `help:"Restrict the changed-file set to baseRef..HEAD plus the working tree." name:"base-ref"`
	NoCache bool     `help:"Disable the incremental cache and force a full run."                   name:"no-cache"`
	Fix     bool     `help:"Apply conservative codemod fixes for findings that carry one."`
	Sources []string `help:"Additional authority data source roots, appended after the config file's." name:"authority"`
	Workers int      `help:"Number of concurrent file-analysis workers (default: number of CPUs)."`
}

// Run executes doxy check.
func (c *checkCmd) Run(kctx context.Context, log logging.Logger, printer *reporter.Printer) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), c.Root)

	result, conf, err := runPipeline(kctx, fsys, log, runOptions{
		BaseRef: c.BaseRef,
		NoCache: c.NoCache,
		Sources: c.Sources,
		Workers: c.Workers,
	})
	if err != nil {
		return err
	}

	if c.Fix {
		if _, err := fixer.Apply(fsys, result.Findings); err != nil {
			return err
		}
	}

	surfaced := filterBySeverity(result.Findings, conf.Severity)
	report := reporter.NewReport(surfaced)
	if err := printer.Print(report); err != nil {
		return err
	}

	if exceedsFailOn(result.Findings, conf.FailOn) {
		os.Exit(1)
	}
	return nil
}

func filterBySeverity(fs []findings.Finding, min findings.Severity) []findings.Finding {
	out := make([]findings.Finding, 0, len(fs))
	for _, f := range fs {
		if f.Severity.AtLeast(min) {
			out = append(out, f)
		}
	}
	return out
}

func exceedsFailOn(fs []findings.Finding, failOn findings.Severity) bool {
	for _, f := range fs {
		if f.Severity.AtLeast(failOn) {
			return true
		}
	}
	return false
}
