// Copyright 2025 Upbound Inc.
// All rights reserved

package findings

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const (
	longIDPrefix  = "dxy:"
	shortIDPrefix = "dxy_"
	shortIDLen    = 8

	errMalformedLongID = "malformed long id %q"
)

// MakeLongID builds the canonical long id for a finding: the portable
// handle that survives short-id hash collisions.
func MakeLongID(pkg, export, file string, line, col int) string {
	var b strings.Builder
	b.WriteString(longIDPrefix)
	b.WriteString(pkg)
	b.WriteByte('/')
	b.WriteString(export)
	b.WriteByte(':')
	b.WriteString(file)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(col))
	return b.String()
}

// ShortID derives the display-shortcut id from a long id: "dxy_" followed
// by the first 8 hex characters of sha256(longID). It is not unique on its
// own; the long id is the canonical handle.
func ShortID(longID string) string {
	sum := sha256.Sum256([]byte(longID))
	return shortIDPrefix + hex.EncodeToString(sum[:])[:shortIDLen]
}

// ParseLongID is the inverse of MakeLongID. File paths containing ":" are
// supported as long as line and column remain the last two ":"-delimited
// segments.
func ParseLongID(longID string) (pkg, export, file string, line, col int, err error) {
	rest, ok := strings.CutPrefix(longID, longIDPrefix)
	if !ok {
		return "", "", "", 0, 0, errors.Errorf(errMalformedLongID, longID)
	}

	segments := strings.Split(rest, ":")
	if len(segments) < 4 {
		return "", "", "", 0, 0, errors.Errorf(errMalformedLongID, longID)
	}

	pkgExport := segments[0]
	file = strings.Join(segments[1:len(segments)-2], ":")
	lineStr := segments[len(segments)-2]
	colStr := segments[len(segments)-1]

	line, err = strconv.Atoi(lineStr)
	if err != nil {
		return "", "", "", 0, 0, errors.Wrapf(err, errMalformedLongID, longID)
	}
	col, err = strconv.Atoi(colStr)
	if err != nil {
		return "", "", "", 0, 0, errors.Wrapf(err, errMalformedLongID, longID)
	}

	idx := strings.LastIndex(pkgExport, "/")
	if idx < 0 {
		return "", "", "", 0, 0, errors.Errorf(errMalformedLongID, longID)
	}
	pkg = pkgExport[:idx]
	export = pkgExport[idx+1:]

	return pkg, export, file, line, col, nil
}

// NewFinding constructs a Finding with its id fields derived from its
// location and symbol, and its severity derived from its kind.
func NewFinding(kind Kind, loc Location, sym Symbol, message string, authority AuthorityRef) Finding {
	longID := MakeLongID(sym.Package, sym.Export, loc.File, loc.Line, loc.Column)
	return Finding{
		ID:        ShortID(longID),
		LongID:    longID,
		Kind:      kind,
		Severity:  SeverityForKind(kind),
		Location:  loc,
		Message:   message,
		Symbol:    sym,
		Authority: authority,
	}
}
