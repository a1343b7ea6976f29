// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/findings"
	"github.com/doxyproj/doxy/internal/suppression"
	doxyversion "github.com/doxyproj/doxy/internal/version"
)

// baselineCmd groups the baseline-management subcommands.
type baselineCmd struct {
	Create baselineCreateCmd `cmd:"" help:"Run a full analysis and accept every current finding into the baseline."`
	Update baselineUpdateCmd `cmd:"" help:"Re-run analysis and accept any new findings, keeping every prior acceptance."`
}

type baselineCreateCmd struct {
	Root    string   `arg:"" default:"." help:"Project root to analyze." type:"path"`
	Sources []string `help:"Additional authority data source roots, appended after the config file's." name:"authority"`
}

// Run executes doxy baseline create: it runs a full, uncached analysis and
// accepts every finding produced into a brand new baseline, overwriting
// any existing one.
func (c *baselineCreateCmd) Run(kctx context.Context, log logging.Logger, p pterm.TextPrinter) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), c.Root)

	result, _, err := runPipeline(kctx, fsys, log, runOptions{NoCache: true, Sources: c.Sources})
	if err != nil {
		return err
	}

	longIDs := longIDsOf(result.Findings)
	b := suppression.NewBaseline(longIDs, time.Now().UTC().Format(time.RFC3339), doxyversion.Version())
	if err := suppression.SaveBaseline(fsys, filepath.Join(suppression.BaselineDir, suppression.BaselineFile), b); err != nil {
		return err
	}

	p.Printfln("accepted %d finding(s) into the baseline", len(longIDs))
	return nil
}

type baselineUpdateCmd struct {
	Root    string   `arg:"" default:"." help:"Project root to analyze." type:"path"`
	Sources []string `help:"Additional authority data source roots, appended after the config file's." name:"authority"`
}

// Run executes doxy baseline update: existing baseline entries are kept
// as-is (even if the underlying finding no longer reproduces, since a
// baseline only ever grows between explicit updates), and every newly
// surfaced finding is folded in.
func (c *baselineUpdateCmd) Run(kctx context.Context, log logging.Logger, p pterm.TextPrinter) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), c.Root)

	path := filepath.Join(suppression.BaselineDir, suppression.BaselineFile)
	existing, err := suppression.LoadBaseline(fsys, path)
	if err != nil {
		return err
	}

	result, _, err := runPipeline(kctx, fsys, log, runOptions{Sources: c.Sources})
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var merged []string
	if existing != nil {
		for _, id := range existing.FindingIDs {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}
	added := 0
	for _, id := range longIDsOf(result.Findings) {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
			added++
		}
	}

	b := suppression.NewBaseline(merged, time.Now().UTC().Format(time.RFC3339), doxyversion.Version())
	if err := suppression.SaveBaseline(fsys, path, b); err != nil {
		return err
	}

	p.Printfln("added %d new finding(s), baseline now holds %d", added, len(merged))
	return nil
}

func longIDsOf(fs []findings.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.LongID)
	}
	return out
}
