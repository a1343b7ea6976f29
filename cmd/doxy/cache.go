// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	cachepkg "github.com/doxyproj/doxy/internal/cache"
)

// cacheCmd groups the cache-inspection subcommands.
type cacheCmd struct {
	Clear cacheClearCmd `cmd:"" help:"Delete the on-disk incremental cache."`
	Stat  cacheStatCmd  `cmd:"" help:"Print a summary of the on-disk incremental cache."`
}

type cacheClearCmd struct {
	Root string `arg:"" default:"." help:"Project root." type:"path"`
}

// Run deletes the cache file outright, rather than merely truncating its
// entries, so a stale schema from an older doxy version can never survive
// a clear.
func (c *cacheClearCmd) Run(p pterm.TextPrinter) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), c.Root)
	path := filepath.Join(cachepkg.Dir, cachepkg.File)

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return err
	}
	if !exists {
		p.Printfln("no cache present at %s", path)
		return nil
	}

	if err := fsys.Remove(path); err != nil {
		return err
	}
	p.Printfln("cleared %s", path)
	return nil
}

type cacheStatCmd struct {
	Root string `arg:"" default:"." help:"Project root." type:"path"`
}

// Run reports the number of cached file entries and the total number of
// findings (suppressed or not) recorded among them.
func (c *cacheStatCmd) Run(p pterm.TextPrinter) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), c.Root)
	path := filepath.Join(cachepkg.Dir, cachepkg.File)

	c2, err := cachepkg.Load(fsys, path)
	if err != nil {
		return err
	}

	findingsCount := 0
	for _, entry := range c2.Entries {
		findingsCount += len(entry.Findings)
	}

	p.Printfln("%d cached file(s), %d recorded finding(s)", len(c2.Entries), findingsCount)
	return nil
}
