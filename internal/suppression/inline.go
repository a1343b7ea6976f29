// Copyright 2025 Upbound Inc.
// All rights reserved

package suppression

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// directiveRe matches any of the three inline forms inside a comment:
//
//	doxy-ignore <kind>[ (—|--|:) reason]
//	doxy-ignore-line <kind>[...]
//	doxy-ignore-start <kind>[...]
//	doxy-ignore-end
var directiveRe = regexp.MustCompile(`doxy-ignore(-line|-start|-end)?(?:\s+([A-Za-z*][A-Za-z0-9_-]*))?(?:\s*(?:—|--|:)\s*(.*))?`)

// ParseInline scans src line by line and returns every inline suppression
// directive found, resolved to absolute line ranges. Lines are 1-indexed
// to match Location.Line.
func ParseInline(src []byte) []Inline {
	var out []Inline
	var openStart *Inline

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !strings.Contains(text, "doxy-ignore") {
			continue
		}

		m := directiveRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		form, kind, reason := m[1], m[2], strings.TrimSpace(m[3])

		switch form {
		case "-end":
			if openStart != nil {
				openStart.EndLine = line
				out = append(out, *openStart)
				openStart = nil
			}
		case "-start":
			if kind == "" {
				continue
			}
			openStart = &Inline{Kind: kind, Reason: reason, StartLine: line}
		case "-line":
			if kind == "" {
				continue
			}
			out = append(out, Inline{Kind: kind, Reason: reason, StartLine: line, EndLine: line})
		default:
			if kind == "" {
				continue
			}
			// Applies to the next source line.
			out = append(out, Inline{Kind: kind, Reason: reason, StartLine: line + 1, EndLine: line + 1})
		}
	}

	// An unterminated doxy-ignore-start is dropped: without a matching end
	// there is no well-defined range to suppress.
	return out
}

// MatchInline returns the first directive in suppressions whose range
// contains line and whose kind matches k, or nil if none match.
func MatchInline(directives []Inline, line int, k string) *Inline {
	for i := range directives {
		d := &directives[i]
		if d.contains(line) && (d.Kind == wildcardKind || d.Kind == k) {
			return d
		}
	}
	return nil
}
