// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ComputeHash computes ctx's contextHash: SHA-256 over a canonicalized
// form of its fields (dependency keys sorted lexicographically, framework
// list sorted by id, path-alias keys sorted), per §3.
func ComputeHash(ctx *RepoContext) string {
	var b strings.Builder

	b.WriteString("root=")
	b.WriteString(ctx.Root)
	b.WriteString("\npackageManager=")
	b.WriteString(ctx.PackageManager)
	b.WriteString("\nbaseURL=")
	b.WriteString(ctx.BaseURL)
	b.WriteString("\njsxMode=")
	b.WriteString(ctx.JSXMode)

	b.WriteString("\ndependencies:\n")
	depKeys := make([]string, 0, len(ctx.Dependencies))
	for k := range ctx.Dependencies {
		depKeys = append(depKeys, k)
	}
	sort.Strings(depKeys)
	for _, k := range depKeys {
		d := ctx.Dependencies[k]
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(d.ResolvedVersion)
		b.WriteByte('/')
		b.WriteString(d.DeclaredRange)
		b.WriteByte('\n')
	}

	b.WriteString("frameworks:\n")
	frameworks := append([]DetectedFramework(nil), ctx.Frameworks...)
	sort.Slice(frameworks, func(i, j int) bool { return frameworks[i].ID < frameworks[j].ID })
	for _, f := range frameworks {
		b.WriteString(f.ID)
		b.WriteByte('=')
		b.WriteString(f.Version)
		b.WriteByte('/')
		b.WriteString(string(f.Confidence))
		b.WriteByte('\n')
	}

	b.WriteString("pathAliases:\n")
	aliasKeys := make([]string, 0, len(ctx.PathAliases))
	for k := range ctx.PathAliases {
		aliasKeys = append(aliasKeys, k)
	}
	sort.Strings(aliasKeys)
	for _, k := range aliasKeys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(ctx.PathAliases[k])
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
