// Copyright 2025 Upbound Inc.
// All rights reserved

// Package ast defines the Normalized AST: the language-agnostic snapshot
// the rest of doxy operates on, and the Parser interface any
// source-language front end must satisfy to produce one.
package ast

// Location identifies a single point in a source file.
type Location struct {
	Line   int
	Column int
}

// Specifier is one named import binding, e.g. `{ useState }` or
// `{ useState as useMyState }`.
type Specifier struct {
	Imported   string
	Local      string
	IsTypeOnly bool
}

// Import is a single normalized import declaration.
type Import struct {
	Source         string
	Specifiers     []Specifier
	DefaultLocal   string
	NamespaceLocal string
	IsTypeOnly     bool
	Location       Location
}

// CallExpression is a single normalized call site. Callee is a dotted path
// string such as "useState" or "React.createElement".
type CallExpression struct {
	Callee   string
	ArgCount int
	ArgNames []string
	Location Location
}

// JSXElement is a single normalized JSX-like element use.
type JSXElement struct {
	TagName    string
	Attributes []string
	Location   Location
}

// SuppressionComment is a single recognized inline suppression directive,
// carrying its raw form so the suppression engine can parse the grammar
// from §4.5 without re-scanning source text.
type SuppressionComment struct {
	Text     string
	Location Location
}

// File is a single file's Normalized AST.
type File struct {
	Path        string
	Imports     []Import
	Calls       []CallExpression
	JSXElements []JSXElement
	Suppressions []SuppressionComment
}

// Parser produces a Normalized AST from source bytes. Any implementation
// producing these records is interchangeable; doxy's analysis never
// depends on a specific source language.
type Parser interface {
	// Parse returns the Normalized AST for the file at path, given its
	// bytes. A parse failure is contained to the file (§7): callers treat
	// it as an internal finding, not a fatal error.
	Parse(path string, src []byte) (*File, error)

	// Extensions lists the file extensions (including the leading dot)
	// this parser claims, e.g. [".ts", ".tsx"].
	Extensions() []string
}
