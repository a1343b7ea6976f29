// Copyright 2025 Upbound Inc.
// All rights reserved

package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/findings"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// sarifLog is a minimal SARIF 2.1.0 log, covering only the fields code
// hosting UIs' code-scanning views read.
type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion            `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// sarifLevel maps doxy's fixed severity taxonomy onto SARIF's level enum.
func sarifLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityError:
		return "error"
	case findings.SeverityWarning:
		return "warning"
	case findings.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}

func toSARIF(report Report) sarifLog {
	seen := map[findings.Kind]bool{}
	var rules []sarifRule
	var results []sarifResult

	for _, f := range report.Findings {
		if !seen[f.Kind] {
			seen[f.Kind] = true
			rules = append(rules, sarifRule{ID: string(f.Kind), Name: string(f.Kind)})
		}
		results = append(results, sarifResult{
			RuleID:  string(f.Kind),
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.Location.File},
					Region: sarifRegion{
						StartLine:   f.Location.Line,
						StartColumn: f.Location.Column,
					},
				},
			}},
		})
	}

	return sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:  "doxy",
				Rules: rules,
			}},
			Results: results,
		}},
	}
}

func (p *Printer) printSARIF(report Report) error {
	b, err := json.MarshalIndent(toSARIF(report), "", "  ")
	if err != nil {
		return errors.Wrap(err, errMarshalReport)
	}
	_, err = fmt.Fprintln(p.Writer, string(b))
	return err
}
