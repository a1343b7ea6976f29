// Copyright 2025 Upbound Inc.
// All rights reserved

package ast

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

var (
	importNamedRe    = regexp.MustCompile(`^\s*import\s+(type\s+)?\{([^}]*)\}\s+from\s+['"]([^'"]+)['"]`)
	importDefaultNsRe = regexp.MustCompile(`^\s*import\s+(type\s+)?(\*\s+as\s+(\w+)|(\w+))(?:\s*,\s*\{([^}]*)\})?\s+from\s+['"]([^'"]+)['"]`)
	importSideEffectRe = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	callExprRe        = regexp.MustCompile(`([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)\s*\(([^)]*)\)`)
	suppressionRe     = regexp.MustCompile(`//\s*(doxy-ignore(?:-line|-start|-end)?.*)$`)

	// jsxElementRe recognizes opening and self-closing JSX tags whose name
	// starts with an uppercase letter, e.g. "<Button" or "<Lib.Button". A
	// lowercase leading letter is a built-in DOM element (a "div", not a
	// library export) per JSX convention, so it's deliberately not matched.
	jsxElementRe = regexp.MustCompile(`<([A-Z][\w.$]*)([^>]*)>`)
	// jsxAttrRe captures attributes with an explicit value ("name=..."),
	// not bare boolean attributes, matching argNames' same positional-args
	// simplification for call expressions.
	jsxAttrRe = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=`)
)

// ReferenceParser is a line-oriented, regexp-based Parser for ECMAScript
// family sources (.js, .jsx, .ts, .tsx). It is not a full language parser:
// it recognizes the common top-level import forms, simple call
// expressions, and uppercase-led JSX element tags well enough to drive
// doxy's analysis and test suite, and documents the syntactic forms it
// does not attempt (template literals, multi-line call arguments,
// multi-line JSX tags, nested destructuring) by simply not matching
// them, which is safe because call-site resolution already tolerates "no
// emission" for unrecognized syntax.
type ReferenceParser struct{}

// NewReferenceParser returns a ReferenceParser.
func NewReferenceParser() *ReferenceParser { return &ReferenceParser{} }

// Extensions implements Parser.
func (p *ReferenceParser) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx"}
}

// Parse implements Parser.
func (p *ReferenceParser) Parse(path string, src []byte) (*File, error) {
	f := &File{Path: path}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		if imp, ok := parseImportLine(text, line); ok {
			f.Imports = append(f.Imports, imp)
			continue
		}

		for _, call := range parseCallExpressions(text, line) {
			f.Calls = append(f.Calls, call)
		}

		for _, el := range parseJSXElements(text, line) {
			f.JSXElements = append(f.JSXElements, el)
		}

		if m := suppressionRe.FindStringSubmatch(text); m != nil {
			f.Suppressions = append(f.Suppressions, SuppressionComment{
				Text:     strings.TrimSpace(m[1]),
				Location: Location{Line: line, Column: strings.Index(text, "//") + 1},
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseImportLine(text string, line int) (Import, bool) {
	if m := importNamedRe.FindStringSubmatch(text); m != nil {
		return Import{
			Source:     m[3],
			Specifiers: parseSpecifiers(m[2]),
			IsTypeOnly: m[1] != "",
			Location:   Location{Line: line, Column: 1},
		}, true
	}
	if m := importDefaultNsRe.FindStringSubmatch(text); m != nil {
		imp := Import{
			Source:     m[6],
			IsTypeOnly: m[1] != "",
			Location:   Location{Line: line, Column: 1},
		}
		if m[3] != "" {
			imp.NamespaceLocal = m[3]
		} else {
			imp.DefaultLocal = m[4]
		}
		if m[5] != "" {
			imp.Specifiers = parseSpecifiers(m[5])
		}
		return imp, true
	}
	if m := importSideEffectRe.FindStringSubmatch(text); m != nil {
		return Import{Source: m[1], Location: Location{Line: line, Column: 1}}, true
	}
	return Import{}, false
}

func parseSpecifiers(raw string) []Specifier {
	var specs []Specifier
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		typeOnly := false
		if strings.HasPrefix(part, "type ") {
			typeOnly = true
			part = strings.TrimSpace(strings.TrimPrefix(part, "type "))
		}
		imported, local := part, part
		if idx := strings.Index(part, " as "); idx >= 0 {
			imported = strings.TrimSpace(part[:idx])
			local = strings.TrimSpace(part[idx+4:])
		}
		specs = append(specs, Specifier{Imported: imported, Local: local, IsTypeOnly: typeOnly})
	}
	return specs
}

func parseCallExpressions(text string, line int) []CallExpression {
	var calls []CallExpression
	for _, m := range callExprRe.FindAllStringSubmatchIndex(text, -1) {
		callee := text[m[2]:m[3]]
		args := text[m[4]:m[5]]
		calls = append(calls, CallExpression{
			Callee:   callee,
			ArgCount: countArgs(args),
			ArgNames: argNames(args),
			Location: Location{Line: line, Column: m[0] + 1},
		})
	}
	return calls
}

func parseJSXElements(text string, line int) []JSXElement {
	var els []JSXElement
	for _, m := range jsxElementRe.FindAllStringSubmatchIndex(text, -1) {
		els = append(els, JSXElement{
			TagName:    text[m[2]:m[3]],
			Attributes: jsxAttrNames(text[m[4]:m[5]]),
			Location:   Location{Line: line, Column: m[0] + 1},
		})
	}
	return els
}

func jsxAttrNames(raw string) []string {
	var names []string
	for _, m := range jsxAttrRe.FindAllStringSubmatch(raw, -1) {
		names = append(names, m[1])
	}
	return names
}

func countArgs(args string) int {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0
	}
	return len(splitArgs(args))
}

// argNames extracts bare identifier names passed positionally, used to
// detect named-argument-style object literals such as `{ onError }`.
func argNames(args string) []string {
	var names []string
	for _, a := range splitArgs(args) {
		a = strings.TrimSpace(a)
		a = strings.TrimPrefix(a, "{")
		a = strings.TrimSuffix(a, "}")
		for _, field := range strings.Split(a, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if idx := strings.IndexAny(field, ":= "); idx >= 0 {
				field = field[:idx]
			}
			if isIdentifier(field) {
				names = append(names, field)
			}
		}
	}
	return names
}

func splitArgs(args string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range args {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, args[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, args[start:])
	return out
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
