// Copyright 2025 Upbound Inc.
// All rights reserved

// Package fixer applies the conservative, call-site-scoped textual
// substitutions an authority deprecation's codemod describes (§12 of
// SPEC_FULL.md). It never infers a replacement: a finding with no
// Codemod fix is left untouched.
package fixer

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/filesystem"
	"github.com/doxyproj/doxy/internal/findings"
)

const errReadSource = "failed to read source file %q for fix application"

// Result reports how many of the candidate findings were fixed.
type Result struct {
	Applied int
	Skipped int
}

// Apply rewrites, in place, every file touched by fs that carries at
// least one finding with a Codemod fix. Within one line, only the
// finding's recorded Location.Column is used to disambiguate multiple
// occurrences of the same Find text; a line with no matching occurrence
// is left unchanged and counted as skipped.
func Apply(fsys afero.Fs, fs []findings.Finding) (Result, error) {
	byFile := map[string][]findings.Finding{}
	for _, f := range fs {
		if codemodOf(f) != nil {
			byFile[f.Location.File] = append(byFile[f.Location.File], f)
		}
	}

	var res Result
	for path, fileFindings := range byFile {
		n, err := applyToFile(fsys, path, fileFindings)
		if err != nil {
			return res, err
		}
		res.Applied += n
		res.Skipped += len(fileFindings) - n
	}
	return res, nil
}

func codemodOf(f findings.Finding) *findings.Codemod {
	for _, fix := range f.Fixes {
		if fix.Codemod != nil {
			return fix.Codemod
		}
	}
	return nil
}

func applyToFile(fsys afero.Fs, path string, fs []findings.Finding) (int, error) {
	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return 0, errors.Wrapf(err, errReadSource, path)
	}

	// Apply bottom-to-top so earlier edits never shift later line numbers.
	sort.Slice(fs, func(i, j int) bool { return fs[i].Location.Line > fs[j].Location.Line })

	lines := splitLines(src)
	applied := 0
	for _, f := range fs {
		cm := codemodOf(f)
		idx := f.Location.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if replaced, ok := replaceNear(lines[idx], cm.Find, cm.ReplaceWith, f.Location.Column); ok {
			lines[idx] = replaced
			applied++
		}
	}

	if applied == 0 {
		return 0, nil
	}

	out := strings.Join(lines, "\n")
	if hasTrailingNewline(src) {
		out += "\n"
	}
	if err := filesystem.AtomicWriteFile(fsys, path, []byte(out), 0o644); err != nil {
		return 0, err
	}
	return applied, nil
}

// replaceNear replaces the occurrence of find in line closest to column
// (1-based), preferring an exact column match when one exists.
func replaceNear(line, find, replaceWith string, column int) (string, bool) {
	if find == "" {
		return line, false
	}

	var best = -1
	for i := 0; ; {
		j := strings.Index(line[i:], find)
		if j < 0 {
			break
		}
		pos := i + j
		if best < 0 || abs(pos+1-column) < abs(best+1-column) {
			best = pos
		}
		i = pos + 1
		if i >= len(line) {
			break
		}
	}
	if best < 0 {
		return line, false
	}
	return line[:best] + replaceWith + line[best+len(find):], true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func splitLines(src []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func hasTrailingNewline(src []byte) bool {
	return len(src) > 0 && src[len(src)-1] == '\n'
}
