// Copyright 2025 Upbound Inc.
// All rights reserved

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/test"

	"github.com/doxyproj/doxy/internal/findings"
)

func TestSuppressionRuleValidate(t *testing.T) {
	cases := map[string]struct {
		reason string
		rule   SuppressionRule
		err    error
	}{
		"Empty": {
			reason: "A rule with every field unset would suppress everything and must be rejected.",
			rule:   SuppressionRule{},
			err:    errors.New(errInvalidRule),
		},
		"PackageOnly": {
			reason: "Constraining by package alone is valid.",
			rule:   SuppressionRule{Package: "left-pad"},
		},
		"PathsOnly": {
			reason: "Constraining by paths alone is valid.",
			rule:   SuppressionRule{Paths: []string{"vendor/**"}},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.rule.Validate()
			if diff := cmp.Diff(tc.err, err, test.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nValidate(...): -want error, +got error:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	cases := map[string]struct {
		reason string
		src    Source
		want   *Config
		err    error
	}{
		"Defaults": {
			reason: "An empty config should be filled in with the documented defaults.",
			src: &MockSource{
				GetConfigFn: func() (*Config, error) { return &Config{}, nil },
			},
			want: &Config{
				Include:  []string{"*.ts", "*.tsx", "*.js", "*.jsx"},
				Severity: findings.SeverityInfo,
				FailOn:   findings.SeverityError,
			},
		},
		"GetConfigError": {
			reason: "A source error should propagate unchanged.",
			src: &MockSource{
				GetConfigFn: func() (*Config, error) { return nil, errors.New("boom") },
			},
			err: errors.New("boom"),
		},
		"InvalidSuppressionRule": {
			reason: "A config with an invalid suppression rule should fail extraction.",
			src: &MockSource{
				GetConfigFn: func() (*Config, error) {
					return &Config{Suppressions: []SuppressionRule{{}}}, nil
				},
			},
			err: errors.New(errInvalidRule),
		},
		"InvalidSeverity": {
			reason: "An unrecognized severity level should fail extraction.",
			src: &MockSource{
				GetConfigFn: func() (*Config, error) {
					return &Config{Severity: findings.Severity("catastrophic")}, nil
				},
			},
			err: errors.Errorf(errInvalidLevel, findings.Severity("catastrophic")),
		},
		"ExplicitValuesPreserved": {
			reason: "Explicitly set fields should not be overwritten by defaults.",
			src: &MockSource{
				GetConfigFn: func() (*Config, error) {
					return &Config{
						Include:  []string{"*.mjs"},
						Severity: findings.SeverityWarning,
						FailOn:   findings.SeverityWarning,
					}, nil
				},
			},
			want: &Config{
				Include:  []string{"*.mjs"},
				Severity: findings.SeverityWarning,
				FailOn:   findings.SeverityWarning,
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Extract(tc.src)
			if diff := cmp.Diff(tc.err, err, test.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nExtract(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nExtract(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFileSourceGetConfigMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := NewFileSource(fs, DefaultPath("/repo"))

	got, err := src.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig(...): unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, got); diff != "" {
		t.Errorf("GetConfig(...): -want, +got:\n%s", diff)
	}
}

func TestFileSourceRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := DefaultPath("/repo")
	src := NewFileSource(fs, path)

	want := &Config{
		Include:  []string{"*.ts"},
		Severity: findings.SeverityWarning,
		FailOn:   findings.SeverityError,
		Suppressions: []SuppressionRule{
			{Package: "left-pad", Reason: "unmaintained"},
		},
	}

	if err := src.UpdateConfig(want); err != nil {
		t.Fatalf("UpdateConfig(...): unexpected error: %v", err)
	}

	got, err := src.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig(...): unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetConfig(...): -want, +got:\n%s", diff)
	}
}
