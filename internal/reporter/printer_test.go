// Copyright 2025 Upbound Inc.
// All rights reserved

package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doxyproj/doxy/internal/config"
	"github.com/doxyproj/doxy/internal/findings"
)

func TestNewReportSummary(t *testing.T) {
	fs := []findings.Finding{
		{Severity: findings.SeverityError},
		{Severity: findings.SeverityError},
		{Severity: findings.SeverityWarning},
		{Severity: findings.SeverityInfo},
	}

	got := NewReport(fs)
	want := Summary{Errors: 2, Warnings: 1, Infos: 1}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Errorf("NewReport(...).Summary: -want, +got:\n%s", diff)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, config.FormatJSON)

	report := NewReport([]findings.Finding{
		{LongID: "dxy:left-pad/leftPad:a.ts:1:1", Kind: findings.KindRemovedAPI, Severity: findings.SeverityError, Message: "removed"},
	})

	if err := p.Print(report); err != nil {
		t.Fatalf("Print(...): unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"removed"`) {
		t.Errorf("Print(...): JSON output missing message, got:\n%s", buf.String())
	}
}

func TestPrintSARIF(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, config.FormatSARIF)

	report := NewReport([]findings.Finding{
		{
			Kind:     findings.KindRemovedAPI,
			Severity: findings.SeverityError,
			Location: findings.Location{File: "a.ts", Line: 3, Column: 4},
			Message:  "removed",
		},
	})

	if err := p.Print(report); err != nil {
		t.Fatalf("Print(...): unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"version": "2.1.0"`, `"ruleId": "removed-api"`, `"level": "error"`, `"uri": "a.ts"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Print(...): SARIF output missing %q, got:\n%s", want, out)
		}
	}
}

func TestPrintDefaultNoFindings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, config.FormatDefault)

	if err := p.Print(NewReport(nil)); err != nil {
		t.Fatalf("Print(...): unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "no findings") {
		t.Errorf("Print(...): got %q, want it to mention no findings", buf.String())
	}
}
