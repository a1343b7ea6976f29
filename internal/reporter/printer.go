// Copyright 2025 Upbound Inc.
// All rights reserved

// Package reporter renders a run's findings in the default, JSON or SARIF
// output format.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/config"
	"github.com/doxyproj/doxy/internal/findings"
)

const errMarshalReport = "failed to marshal report"

// Summary totals findings by severity, independent of the FailOn threshold
// used to decide the process exit code.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Report is the complete output of a run: every surfaced finding (already
// filtered to the configured minimum severity) plus a summary count.
type Report struct {
	Findings []findings.Finding `json:"findings"`
	Summary  Summary            `json:"summary"`
}

// NewReport builds a Report from fs, which must already be sorted and
// filtered to the minimum severity the caller wants surfaced.
func NewReport(fs []findings.Finding) Report {
	r := Report{Findings: fs}
	for _, f := range fs {
		switch f.Severity {
		case findings.SeverityError:
			r.Summary.Errors++
		case findings.SeverityWarning:
			r.Summary.Warnings++
		case findings.SeverityInfo:
			r.Summary.Infos++
		}
	}
	return r
}

// Printer renders a Report to an io.Writer in one of the supported formats.
type Printer struct {
	Format config.Format
	Writer io.Writer
}

// NewPrinter returns a Printer writing to w in the given format.
func NewPrinter(w io.Writer, format config.Format) *Printer {
	return &Printer{Format: format, Writer: w}
}

// Print renders report in the printer's configured format.
func (p *Printer) Print(report Report) error {
	switch p.Format {
	case config.FormatJSON:
		return p.printJSON(report)
	case config.FormatSARIF:
		return p.printSARIF(report)
	case config.FormatDefault:
		fallthrough
	default:
		return p.printDefault(report)
	}
}

func (p *Printer) printJSON(report Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, errMarshalReport)
	}
	_, err = fmt.Fprintln(p.Writer, string(b))
	return err
}

func (p *Printer) printDefault(report Report) error {
	if len(report.Findings) == 0 {
		pterm.FgGreen.Fprintln(p.Writer, "no findings")
		return nil
	}

	byFile := map[string][]findings.Finding{}
	var order []string
	for _, f := range report.Findings {
		if _, ok := byFile[f.Location.File]; !ok {
			order = append(order, f.Location.File)
		}
		byFile[f.Location.File] = append(byFile[f.Location.File], f)
	}

	for _, file := range order {
		pterm.Fprintln(p.Writer, file)
		for _, f := range byFile[file] {
			line := fmt.Sprintf("  %d:%d  %-8s  %s  %s", f.Location.Line, f.Location.Column, f.Severity, f.Kind, f.Message)
			switch f.Severity {
			case findings.SeverityError:
				pterm.FgRed.Fprintln(p.Writer, line)
			case findings.SeverityWarning:
				pterm.FgYellow.Fprintln(p.Writer, line)
			default:
				pterm.FgDefault.Fprintln(p.Writer, line)
			}
		}
	}

	_, err := fmt.Fprintf(p.Writer, "\n%d error(s), %d warning(s), %d info(s)\n",
		report.Summary.Errors, report.Summary.Warnings, report.Summary.Infos)
	return err
}
