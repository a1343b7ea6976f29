// Copyright 2025 Upbound Inc.
// All rights reserved

// Package config handles the doxy CLI configuration file and types.
package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/findings"
)

// Location of the doxy config file, relative to the project root.
const (
	ConfigDir  = ".doxy"
	ConfigFile = "config.json"
)

const (
	errReadConfig   = "failed to read configuration file"
	errParseConfig  = "failed to parse configuration file"
	errMarshal      = "failed to marshal configuration"
	errInvalidRule  = "suppression rule must set at least one of package, export, kind or paths"
	errInvalidLevel = "invalid severity level %q"
)

// QuietFlag provides a named boolean type for the --quiet CLI flag.
type QuietFlag bool

// Format represents allowed values for the global output format option.
type Format string

const (
	// FormatDefault is the default, human-friendly, output format.
	FormatDefault Format = "default"
	// FormatJSON is the JSON output format.
	FormatJSON Format = "json"
	// FormatSARIF is the SARIF output format consumed by most code-hosting
	// UIs' code scanning views.
	FormatSARIF Format = "sarif"
)

// Config is the format of a doxy configuration file.
type Config struct {
	// Include lists globs (relative to the project root) of files to
	// analyze. Defaults to *.ts, *.tsx, *.js and *.jsx.
	Include []string `json:"include,omitempty"`
	// Exclude lists globs of files to skip even if they match Include.
	Exclude []string `json:"exclude,omitempty"`
	// Severity is the minimum severity level surfaced in output.
	Severity findings.Severity `json:"severity,omitempty"`
	// FailOn is the minimum severity level that causes a non-zero exit code.
	FailOn findings.Severity `json:"failOn,omitempty"`
	// Frameworks maps a framework id to a manual version override, bypassing
	// lockfile/manifest-based detection for that framework.
	Frameworks map[string]string `json:"frameworks,omitempty"`
	// PathAliases maps an import-source prefix to a relative path, applied
	// as a pre-pass before package-name extraction.
	PathAliases map[string]string `json:"pathAliases,omitempty"`
	// Suppressions lists config-level suppression rules.
	Suppressions []SuppressionRule `json:"suppressions,omitempty"`
	// RequireSuppressionReason elevates an inline suppression with no
	// reason to a configuration error at run start.
	RequireSuppressionReason bool `json:"requireSuppressionReason,omitempty"`
	// AuthorityDataSources is an ordered list of authority store roots;
	// the first root to define a given (package, export) key wins.
	AuthorityDataSources []string `json:"authorityDataSources,omitempty"`
}

// SuppressionRule is a config-level suppression rule (see spec §3, §4.3).
type SuppressionRule struct {
	Package string   `json:"package,omitempty"`
	Export  string   `json:"export,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Paths   []string `json:"paths,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// Validate reports whether the rule constrains anything at all; a rule
// with every field empty would suppress every finding in the project.
func (r SuppressionRule) Validate() error {
	if r.Package == "" && r.Export == "" && r.Kind == "" && len(r.Paths) == 0 {
		return errors.New(errInvalidRule)
	}
	return nil
}

// applyDefaults fills in zero-valued fields with the defaults from §6.
func (c *Config) applyDefaults() {
	if len(c.Include) == 0 {
		c.Include = []string{"*.ts", "*.tsx", "*.js", "*.jsx"}
	}
	if c.Severity == "" {
		c.Severity = findings.SeverityInfo
	}
	if c.FailOn == "" {
		c.FailOn = findings.SeverityError
	}
}

// Source abstracts where a Config is loaded from and persisted to, mirroring
// the read/validate/write boundary every other doxy component uses.
type Source interface {
	GetConfig() (*Config, error)
	UpdateConfig(*Config) error
}

// Extract performs extraction of configuration from the provided source,
// applying defaults to any field the source left unset.
func Extract(src Source) (*Config, error) {
	conf, err := src.GetConfig()
	if err != nil {
		return nil, err
	}
	conf.applyDefaults()
	for _, r := range conf.Suppressions {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if !conf.Severity.Valid() {
		return nil, errors.Errorf(errInvalidLevel, conf.Severity)
	}
	if !conf.FailOn.Valid() {
		return nil, errors.Errorf(errInvalidLevel, conf.FailOn)
	}
	return conf, nil
}

// FileSource reads and writes a Config as JSON on an afero filesystem.
type FileSource struct {
	fs   afero.Fs
	path string
}

// NewFileSource returns a FileSource rooted at path.
func NewFileSource(fs afero.Fs, path string) *FileSource {
	return &FileSource{fs: fs, path: path}
}

// DefaultPath returns the default config path under root.
func DefaultPath(root string) string {
	return filepath.Join(root, ConfigDir, ConfigFile)
}

// GetConfig implements Source. A missing file yields a zero-value Config
// rather than an error, so a project need not carry a config file at all.
func (s *FileSource) GetConfig() (*Config, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrap(err, errReadConfig)
	}
	if !exists {
		return &Config{}, nil
	}

	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrap(err, errReadConfig)
	}

	c := &Config{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, errParseConfig)
	}
	return c, nil
}

// UpdateConfig implements Source, writing c back to the underlying file.
func (s *FileSource) UpdateConfig(c *Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, errMarshal)
	}
	return afero.WriteFile(s.fs, s.path, b, 0o644)
}
