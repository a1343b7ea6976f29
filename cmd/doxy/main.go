// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/pterm/pterm"
	"github.com/willabides/kongplete"

	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/config"
	"github.com/doxyproj/doxy/internal/feature"
	doxylog "github.com/doxyproj/doxy/internal/logging"
	"github.com/doxyproj/doxy/internal/reporter"
)

const helpDescription = `
doxy verifies that a project's use of its dependencies' public APIs still
matches what those dependencies actually export at the installed version,
catching calls into removed, not-yet-released, or renamed exports before
they fail at runtime.
`

// cli is the root command tree.
type cli struct {
	Format  config.Format    `default:"default" enum:"default,json,sarif" help:"Output format: default, json or sarif." name:"format"`
	Quiet   config.QuietFlag `help:"Suppress all output."                 name:"quiet"  short:"q"`
	Verbose bool             `help:"Enable verbose, human-friendly logging." name:"verbose"`

	Check      checkCmd              `cmd:"" help:"Analyze a project for API-compatibility findings."`
	Baseline   baselineCmd           `cmd:"" help:"Manage the accepted-findings baseline."`
	Cache      cacheCmd              `cmd:"" help:"Inspect or clear the incremental analysis cache."`
	Version    versionCmd            `cmd:"" help:"Print version information."`
	Completion kongplete.InstallCompletions `cmd:"" help:"Install shell completions."`
}

// AfterApply configures the printer and logger shared by every subcommand.
func (c *cli) AfterApply(ctx *kong.Context) error { //nolint:unparam // kong requires an error return.
	if c.Quiet {
		ctx.Stdout, ctx.Stderr = io.Discard, io.Discard
	}
	ctx.BindTo(pterm.DefaultBasicText.WithWriter(ctx.Stdout), (*pterm.TextPrinter)(nil))

	printer := reporter.NewPrinter(ctx.Stdout, c.Format)
	ctx.Bind(printer)

	log := doxylog.NewCLILogger(c.Verbose)
	ctx.BindTo(log, (*logging.Logger)(nil))

	return nil
}

// BeforeReset runs before all other hooks; every doxy command currently
// ships at stable maturity.
func (c *cli) BeforeReset(ctx *kong.Context, p *kong.Path) error {
	ctx.Bind(feature.Stable)
	if ctx.Selected() == nil {
		return feature.HideMaturity(p, feature.Stable)
	}
	return nil
}

func main() {
	c := cli{}
	parser := kong.Must(&c,
		kong.Name("doxy"),
		kong.Description(helpDescription),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}))

	kongplete.Complete(parser,
		kongplete.WithPredictor("format", complete.PredictSet("default", "json", "sarif")),
		kongplete.WithPredictor("severity", complete.PredictSet("error", "warning", "info")),
	)

	if len(os.Args) == 1 {
		_, err := parser.Parse([]string{"--help"})
		parser.FatalIfErrorf(err)
		return
	}

	kongCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	kongCtx.BindTo(context.Background(), (*context.Context)(nil))
	kongCtx.FatalIfErrorf(kongCtx.Run())
}
