// Copyright 2025 Upbound Inc.
// All rights reserved

package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReferenceParserImports(t *testing.T) {
	src := `import { useState, useEffect as useFx } from 'react';
import React from 'react';
import * as ReactDOM from 'react-dom';
import type { FC } from 'react';
import './styles.css';
`
	f, err := NewReferenceParser().Parse("a.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(...): unexpected error: %v", err)
	}
	if len(f.Imports) != 5 {
		t.Fatalf("Parse(...): got %d imports, want 5: %+v", len(f.Imports), f.Imports)
	}

	named := f.Imports[0]
	want := []Specifier{
		{Imported: "useState", Local: "useState"},
		{Imported: "useEffect", Local: "useFx"},
	}
	if diff := cmp.Diff(want, named.Specifiers); diff != "" {
		t.Errorf("Parse(...): named import specifiers -want, +got:\n%s", diff)
	}

	if f.Imports[1].DefaultLocal != "React" {
		t.Errorf("Parse(...): default import local: got %q, want React", f.Imports[1].DefaultLocal)
	}
	if f.Imports[2].NamespaceLocal != "ReactDOM" {
		t.Errorf("Parse(...): namespace import local: got %q, want ReactDOM", f.Imports[2].NamespaceLocal)
	}
	if !f.Imports[3].IsTypeOnly {
		t.Errorf("Parse(...): type-only import not marked type-only")
	}
	if f.Imports[4].Source != "./styles.css" {
		t.Errorf("Parse(...): side-effect import source: got %q, want ./styles.css", f.Imports[4].Source)
	}
}

func TestReferenceParserCalls(t *testing.T) {
	src := `const [count, setCount] = useState(0, "extra");
React.createElement('div', { onClick });
`
	f, err := NewReferenceParser().Parse("a.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(...): unexpected error: %v", err)
	}
	if len(f.Calls) != 2 {
		t.Fatalf("Parse(...): got %d calls, want 2: %+v", len(f.Calls), f.Calls)
	}
	if f.Calls[0].Callee != "useState" || f.Calls[0].ArgCount != 2 {
		t.Errorf("Parse(...): first call: got %+v, want callee=useState argCount=2", f.Calls[0])
	}
	if f.Calls[1].Callee != "React.createElement" || f.Calls[1].ArgCount != 2 {
		t.Errorf("Parse(...): second call: got %+v, want callee=React.createElement argCount=2", f.Calls[1])
	}
}

func TestReferenceParserJSXElements(t *testing.T) {
	src := `const el = <Button onClick={handleClick} label="go" disabled />;
return <div><Lib.Card title="x" /></div>;
`
	f, err := NewReferenceParser().Parse("a.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(...): unexpected error: %v", err)
	}
	if len(f.JSXElements) != 2 {
		t.Fatalf("Parse(...): got %d JSX elements, want 2 (lowercase 'div' is not a library export): %+v", len(f.JSXElements), f.JSXElements)
	}
	if f.JSXElements[0].TagName != "Button" {
		t.Errorf("Parse(...): first element: got tag %q, want Button", f.JSXElements[0].TagName)
	}
	if len(f.JSXElements[0].Attributes) != 2 || f.JSXElements[0].Attributes[0] != "onClick" || f.JSXElements[0].Attributes[1] != "label" {
		t.Errorf("Parse(...): first element attributes: got %+v, want [onClick label] (bare 'disabled' has no value)", f.JSXElements[0].Attributes)
	}
	if f.JSXElements[0].Location.Line != 1 {
		t.Errorf("Parse(...): first element line: got %d, want 1", f.JSXElements[0].Location.Line)
	}
	if f.JSXElements[1].TagName != "Lib.Card" {
		t.Errorf("Parse(...): second element: got tag %q, want Lib.Card", f.JSXElements[1].TagName)
	}
}

func TestReferenceParserSuppressions(t *testing.T) {
	src := `// doxy-ignore deprecated-api -- migrating soon
createFactory('div');
`
	f, err := NewReferenceParser().Parse("a.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(...): unexpected error: %v", err)
	}
	if len(f.Suppressions) != 1 {
		t.Fatalf("Parse(...): got %d suppressions, want 1: %+v", len(f.Suppressions), f.Suppressions)
	}
	if f.Suppressions[0].Location.Line != 1 {
		t.Errorf("Parse(...): suppression line: got %d, want 1", f.Suppressions[0].Location.Line)
	}
}
