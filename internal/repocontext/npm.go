// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const (
	errReadManifest  = "failed to read package.json"
	errParseManifest = "failed to parse package.json"
	errReadLockfile  = "failed to read lockfile"
	errParseLockfile = "failed to parse lockfile"
	errReadTSConfig  = "failed to read tsconfig.json"
	errParseTSConfig = "failed to parse tsconfig.json"
)

// NpmManifestReader implements ManifestReader against a package.json
// manifest, merging dependencies and devDependencies (a package declared
// in both takes the dependencies entry).
type NpmManifestReader struct {
	Fs afero.Fs
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ReadManifest implements ManifestReader. A missing package.json is not
// an error: it yields an empty dependency set.
func (r NpmManifestReader) ReadManifest(root string) (map[string]string, error) {
	path := filepath.Join(root, "package.json")
	exists, err := afero.Exists(r.Fs, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadManifest)
	}
	if !exists {
		return map[string]string{}, nil
	}

	b, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadManifest)
	}

	var pkg packageJSON
	if err := json.Unmarshal(b, &pkg); err != nil {
		return nil, errors.Wrap(err, errParseManifest)
	}

	deps := map[string]string{}
	for name, rng := range pkg.DevDependencies {
		deps[name] = rng
	}
	for name, rng := range pkg.Dependencies {
		deps[name] = rng
	}
	return deps, nil
}

// NpmLockfileReader implements LockfileReader against npm's
// package-lock.json (v2/v3 "packages" layout), falling back to yarn's
// and pnpm's lockfiles when no package-lock.json is present.
type NpmLockfileReader struct {
	Fs afero.Fs
}

type packageLockJSON struct {
	Packages map[string]struct {
		Version string `json:"version"`
		Dev     bool   `json:"dev"`
	} `json:"packages"`
}

// ReadLockfile implements LockfileReader. A missing lockfile is a soft
// condition per §7: it yields an empty resolved set, no package manager
// name, and no error.
func (r NpmLockfileReader) ReadLockfile(root string) (map[string]string, string, error) {
	if resolved, ok, err := r.readNpm(root); err != nil {
		return nil, "", err
	} else if ok {
		return resolved, "npm", nil
	}

	if resolved, ok, err := r.readYarn(root); err != nil {
		return nil, "", err
	} else if ok {
		return resolved, "yarn", nil
	}

	if resolved, ok, err := r.readPnpm(root); err != nil {
		return nil, "", err
	} else if ok {
		return resolved, "pnpm", nil
	}

	return map[string]string{}, "", nil
}

func (r NpmLockfileReader) readNpm(root string) (map[string]string, bool, error) {
	path := filepath.Join(root, "package-lock.json")
	exists, err := afero.Exists(r.Fs, path)
	if err != nil || !exists {
		return nil, false, errors.Wrap(err, errReadLockfile)
	}

	b, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, true, errors.Wrap(err, errReadLockfile)
	}

	var lock packageLockJSON
	if err := json.Unmarshal(b, &lock); err != nil {
		return nil, true, errors.Wrap(err, errParseLockfile)
	}

	resolved := map[string]string{}
	for path, entry := range lock.Packages {
		if path == "" || entry.Version == "" {
			continue
		}
		name := nodeModulesPackageName(path)
		if name == "" {
			continue
		}
		resolved[name] = entry.Version
	}
	return resolved, true, nil
}

// nodeModulesPackageName extracts a package name from a package-lock.json
// "packages" key, which nests scoped and transitive dependencies as
// "node_modules/pkg" or "node_modules/@scope/pkg" or
// "node_modules/a/node_modules/b".
func nodeModulesPackageName(path string) string {
	idx := strings.LastIndex(path, "node_modules/")
	if idx < 0 {
		return ""
	}
	name := path[idx+len("node_modules/"):]
	if strings.HasPrefix(name, "@") {
		parts := strings.SplitN(name, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return name
	}
	parts := strings.SplitN(name, "/", 2)
	return parts[0]
}

var yarnEntryRe = regexp.MustCompile(`(?m)^"?([^"@\n][^@\n]*|@[^/\n]+/[^@\n]+)@[^\n]+:\n  version "?([^"\n]+)"?`)

func (r NpmLockfileReader) readYarn(root string) (map[string]string, bool, error) {
	path := filepath.Join(root, "yarn.lock")
	exists, err := afero.Exists(r.Fs, path)
	if err != nil || !exists {
		return nil, false, errors.Wrap(err, errReadLockfile)
	}

	b, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, true, errors.Wrap(err, errReadLockfile)
	}

	resolved := map[string]string{}
	for _, m := range yarnEntryRe.FindAllStringSubmatch(string(b), -1) {
		resolved[m[1]] = m[2]
	}
	return resolved, true, nil
}

var pnpmEntryRe = regexp.MustCompile(`(?m)^\s*(@?[^\s:/'"]+(?:/[^\s:'"]+)?)(?:@([^\s():]+))?(?:\([^)]*\))?:\n(?:[^\n]*\n)*?\s*version:\s*([^\s\n]+)`)

func (r NpmLockfileReader) readPnpm(root string) (map[string]string, bool, error) {
	path := filepath.Join(root, "pnpm-lock.yaml")
	exists, err := afero.Exists(r.Fs, path)
	if err != nil || !exists {
		return nil, false, errors.Wrap(err, errReadLockfile)
	}

	b, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, true, errors.Wrap(err, errReadLockfile)
	}

	resolved := map[string]string{}
	for _, m := range pnpmEntryRe.FindAllStringSubmatch(string(b), -1) {
		resolved[m[1]] = strings.TrimSuffix(m[3], ")")
	}
	return resolved, true, nil
}

// TSConfigReader implements TypeCompilerOptionsReader against
// tsconfig.json's compilerOptions.
type TSConfigReader struct {
	Fs afero.Fs
}

type tsConfigJSON struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
		JSX     string              `json:"jsx"`
	} `json:"compilerOptions"`
}

// ReadTypeCompilerOptions implements TypeCompilerOptionsReader. A missing
// tsconfig.json yields no aliases, no base URL, and no JSX mode.
func (r TSConfigReader) ReadTypeCompilerOptions(root string) (map[string]string, string, string, error) {
	path := filepath.Join(root, "tsconfig.json")
	exists, err := afero.Exists(r.Fs, path)
	if err != nil {
		return nil, "", "", errors.Wrap(err, errReadTSConfig)
	}
	if !exists {
		return map[string]string{}, "", "", nil
	}

	b, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, "", "", errors.Wrap(err, errReadTSConfig)
	}

	var cfg tsConfigJSON
	if err := json.Unmarshal(stripJSONComments(b), &cfg); err != nil {
		return nil, "", "", errors.Wrap(err, errParseTSConfig)
	}

	aliases := map[string]string{}
	for pattern, targets := range cfg.CompilerOptions.Paths {
		if len(targets) == 0 {
			continue
		}
		prefix := strings.TrimSuffix(pattern, "/*")
		target := strings.TrimSuffix(targets[0], "/*")
		aliases[prefix] = target
	}

	return aliases, cfg.CompilerOptions.BaseURL, cfg.CompilerOptions.JSX, nil
}

var jsonLineCommentRe = regexp.MustCompile(`(?m)//[^\n]*$`)

// stripJSONComments removes "//" line comments, a tsconfig.json
// convention the JSON decoder otherwise rejects. It does not handle
// "//" occurring inside a string literal, a narrow gap acceptable for
// the common tsconfig.json shape.
func stripJSONComments(b []byte) []byte {
	return jsonLineCommentRe.ReplaceAll(b, nil)
}
