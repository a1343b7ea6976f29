// Copyright 2025 Upbound Inc.
// All rights reserved

// Package orchestrator implements the Pipeline Orchestrator (C8):
// sequencing repo-context building, authority loading, run planning,
// per-file analysis, and cache reconciliation into one run.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/analyzer"
	astpkg "github.com/doxyproj/doxy/internal/ast"
	"github.com/doxyproj/doxy/internal/authority"
	"github.com/doxyproj/doxy/internal/cache"
	"github.com/doxyproj/doxy/internal/findings"
	"github.com/doxyproj/doxy/internal/incremental"
	"github.com/doxyproj/doxy/internal/repocontext"
	"github.com/doxyproj/doxy/internal/resolver"
	"github.com/doxyproj/doxy/internal/suppression"
)

// defaultPerFileTimeout is the per-file wall-clock budget of §5: a
// pathological parse aborts with an internal finding rather than hanging
// the run.
const defaultPerFileTimeout = 10 * time.Second

const errFmtParseTimeout = "analysis of %s did not complete within the per-file timeout"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithWorkerCount overrides the default worker pool size (number of
// available cores).
func WithWorkerCount(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPerFileTimeout overrides the default per-file wall-clock budget.
func WithPerFileTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.perFileTimeout = d }
}

// WithParser overrides the default Normalized AST parser.
func WithParser(p astpkg.Parser) Option {
	return func(o *Orchestrator) { o.parser = p }
}

// Orchestrator sequences the per-run pipeline across a bounded worker
// pool.
type Orchestrator struct {
	log            logging.Logger
	workers        int
	perFileTimeout time.Duration
	parser         astpkg.Parser
}

// New constructs an Orchestrator. Callers must supply a Parser via
// WithParser for any language other than the bundled reference parser.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:            logging.NewNopLogger(),
		workers:        runtime.NumCPU(),
		perFileTimeout: defaultPerFileTimeout,
		parser:         astpkg.NewReferenceParser(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunResult is the outcome of one full run: the merged, sorted finding
// set and the updated cache ready to be written back.
type RunResult struct {
	Findings []findings.Finding
	Cache    cache.Cache
}

// Run executes the bounded-concurrency analysis stage over plan's
// FilesToAnalyze, merges the result with plan's CachedFiles, and returns
// the consolidated, GC'd cache alongside the final sorted finding set.
// It honors ctx cancellation between files: in-flight workers finish
// their current file, but no new file is dispatched (§5).
func (o *Orchestrator) Run(ctx context.Context, fsys afero.Fs, plan incremental.RunPlan, repoCtx *repocontext.RepoContext, store *authority.Store, suppressions *suppression.Set, pathAliases resolver.PathAliases, trackedPackages map[string]bool, existingEntries map[string]cache.FileCacheEntry) (RunResult, error) {
	type workerOutput struct {
		path    string
		entry   cache.FileCacheEntry
		fresh   []findings.Finding
	}

	results := make([]workerOutput, len(plan.FilesToAnalyze))

	sem := make(chan struct{}, o.workers)
	eg, egCtx := errgroup.WithContext(ctx)

	for i, file := range plan.FilesToAnalyze {
		i, file := i, file
		eg.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-egCtx.Done():
				return nil // cancellation: don't dispatch a new file
			}
			defer func() { <-sem }()

			out, err := o.analyzeOneFile(egCtx, fsys, file, repoCtx, store, suppressions, pathAliases, trackedPackages)
			if err != nil {
				o.log.Info("file analysis failed, recorded as an internal finding", "file", file.Path, "error", err)
			}
			results[i] = workerOutput{path: file.Path, entry: out.entry, fresh: out.fresh}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return RunResult{}, err
	}

	merged := make([]findings.Finding, 0, len(plan.FilesToAnalyze)+len(plan.CachedFiles))
	newEntries := make(map[string]cache.FileCacheEntry, len(existingEntries))
	for k, v := range existingEntries {
		newEntries[k] = v
	}

	for _, r := range results {
		if r.path == "" {
			continue // cancelled before dispatch
		}
		newEntries[r.path] = r.entry
		merged = append(merged, visibleFindings(r.fresh)...)
	}
	for _, cf := range plan.CachedFiles {
		merged = append(merged, visibleFindings(cf.Findings)...)
	}

	findings.Sort(merged)

	newEntries = cache.GC(newEntries, func(p string) bool {
		exists, _ := afero.Exists(fsys, p)
		return exists
	})

	return RunResult{
		Findings: merged,
		Cache:    cache.Cache{Entries: newEntries},
	}, nil
}

// visibleFindings drops findings suppressed by any source from the
// caller-visible result (they remain in the cache entry untouched).
func visibleFindings(fs []findings.Finding) []findings.Finding {
	out := make([]findings.Finding, 0, len(fs))
	for _, f := range fs {
		if f.Suppressed == nil {
			out = append(out, f)
		}
	}
	return out
}

type fileAnalysisOutput struct {
	entry cache.FileCacheEntry
	fresh []findings.Finding
}

// analyzeOneFile performs one worker's unit of work: read, hash, parse,
// resolve, analyze, suppress, emit.
func (o *Orchestrator) analyzeOneFile(ctx context.Context, fsys afero.Fs, file incremental.FileToAnalyze, repoCtx *repocontext.RepoContext, store *authority.Store, suppressions *suppression.Set, pathAliases resolver.PathAliases, trackedPackages map[string]bool) (fileAnalysisOutput, error) {
	type result struct {
		out fileAnalysisOutput
		err error
	}
	done := make(chan result, 1)

	go func() {
		out, err := o.doAnalyzeOneFile(fsys, file, repoCtx, store, suppressions, pathAliases, trackedPackages)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-time.After(o.perFileTimeout):
		return o.timeoutOutput(file), errors.Errorf(errFmtParseTimeout, file.Path)
	}
}

func (o *Orchestrator) timeoutOutput(file incremental.FileToAnalyze) fileAnalysisOutput {
	loc := findings.Location{File: file.Path, Line: 1, Column: 1}
	f := findings.NewFinding(findings.KindInternal, loc, findings.Symbol{}, "analysis did not complete within the per-file timeout", findings.AuthorityRef{})
	return fileAnalysisOutput{
		entry: cache.FileCacheEntry{FilePath: file.Path},
		fresh: []findings.Finding{f},
	}
}

func (o *Orchestrator) doAnalyzeOneFile(fsys afero.Fs, file incremental.FileToAnalyze, repoCtx *repocontext.RepoContext, store *authority.Store, suppressions *suppression.Set, pathAliases resolver.PathAliases, trackedPackages map[string]bool) (fileAnalysisOutput, error) {
	src, err := afero.ReadFile(fsys, file.Path)
	if err != nil {
		return o.internalErrorOutput(file, err), err
	}

	contentHash := hashBytes(src)

	astFile, err := o.parser.Parse(file.Path, src)
	if err != nil {
		return o.internalErrorOutput(file, err), err
	}

	result := resolver.ResolveImports(astFile, trackedPackages, pathAliases)

	packageVersions := map[string]string{}
	for _, pkg := range result.ImportedPackages {
		if v, ok := repoCtx.ResolvedVersionFor(pkg); ok {
			packageVersions[pkg] = v
		}
	}

	fresh := analyzer.Analyze(file.Path, result.Usages, repoCtx, store)

	inline := suppression.ParseInline(src)
	bySuppressionFile := map[string][]suppression.Inline{file.Path: inline}
	localSet := &suppression.Set{Inline: bySuppressionFile, Config: suppressions.Config, Baseline: suppressions.Baseline}

	for i := range fresh {
		fresh[i] = suppression.Apply(localSet, fresh[i])
	}

	entry := cache.FileCacheEntry{
		FilePath:          file.Path,
		ContentHash:       contentHash,
		AuthorityVersion:  store.DataVersion(),
		RepoContextHash:   repoCtx.ContextHash,
		ImportedPackages:  result.ImportedPackages,
		PackageVersions:   packageVersions,
		UnresolvedImports: result.UnresolvedImports,
		Findings:          fresh,
		AnalyzedAt:        time.Now().UTC().Format(time.RFC3339),
	}

	return fileAnalysisOutput{entry: entry, fresh: fresh}, nil
}

func (o *Orchestrator) internalErrorOutput(file incremental.FileToAnalyze, cause error) fileAnalysisOutput {
	loc := findings.Location{File: file.Path, Line: 1, Column: 1}
	f := findings.NewFinding(findings.KindInternal, loc, findings.Symbol{}, cause.Error(), findings.AuthorityRef{})
	return fileAnalysisOutput{
		entry: cache.FileCacheEntry{FilePath: file.Path},
		fresh: []findings.Finding{f},
	}
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
