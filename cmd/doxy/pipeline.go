// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/async"
	"github.com/doxyproj/doxy/internal/authority"
	"github.com/doxyproj/doxy/internal/cache"
	"github.com/doxyproj/doxy/internal/config"
	"github.com/doxyproj/doxy/internal/discover"
	"github.com/doxyproj/doxy/internal/incremental"
	"github.com/doxyproj/doxy/internal/orchestrator"
	"github.com/doxyproj/doxy/internal/repocontext"
	"github.com/doxyproj/doxy/internal/resolver"
	"github.com/doxyproj/doxy/internal/suppression"
)

const (
	errNoAuthoritySources = "no authorityDataSources configured; add at least one to .doxy/config.json"
	errSuppressionReasons = "%d inline suppression(s) have no reason and requireSuppressionReason is set"
)

// runOptions narrows the bits of a checkCmd a pipeline run needs, so
// baselineCmd can drive the same pipeline without embedding checkCmd.
type runOptions struct {
	BaseRef string
	NoCache bool
	Sources []string
	Workers int
}

// runPipeline executes one full analysis pass rooted at fsys: config,
// authority, repo context, planning, orchestration, and cache
// persistence. It is the shared implementation behind `doxy check` and
// `doxy baseline create`/`update`.
func runPipeline(ctx context.Context, fsys afero.Fs, log logging.Logger, opts runOptions) (orchestrator.RunResult, *config.Config, error) {
	conf, err := config.Extract(config.NewFileSource(fsys, config.DefaultPath(".")))
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	sources := append(append([]string{}, conf.AuthorityDataSources...), opts.Sources...)
	if len(sources) == 0 {
		return orchestrator.RunResult{}, nil, errors.New(errNoAuthoritySources)
	}

	store, err := authority.Load(ctx, fsys, sources, authority.WithLogger(log))
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	repoCtx, err := repocontext.NewBuilder(
		repocontext.WithManifestReader(repocontext.NpmManifestReader{Fs: fsys}),
		repocontext.WithLockfileReader(repocontext.NpmLockfileReader{Fs: fsys}),
		repocontext.WithTypeCompilerOptionsReader(repocontext.TSConfigReader{Fs: fsys}),
		repocontext.WithLogger(log),
	).Build(".", conf.Frameworks, conf.PathAliases)
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	candidateFiles, err := discover.Files(fsys, ".", conf.Include, conf.Exclude)
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	cachePath := filepath.Join(cache.Dir, cache.File)
	loadedCache := &cache.Cache{Entries: map[string]cache.FileCacheEntry{}}
	if !opts.NoCache {
		loadedCache, err = cache.Load(fsys, cachePath)
		if err != nil {
			return orchestrator.RunResult{}, nil, err
		}
	}

	vcs, err := incremental.OpenGitVCS(".")
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	currentPackageVersions := map[string]string{}
	for pkg := range repoCtx.Dependencies {
		if v, ok := repoCtx.ResolvedVersionFor(pkg); ok {
			currentPackageVersions[pkg] = v
		}
	}

	plan, err := incremental.Plan(fsys, candidateFiles, vcs, loadedCache, currentPackageVersions, store.HasPackage, incremental.Options{
		BaseRef:          opts.BaseRef,
		AuthorityVersion: store.DataVersion(),
		RepoContextHash:  repoCtx.ContextHash,
		ConfigChanged:    opts.NoCache,
	})
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	if err := checkSuppressionReasons(fsys, conf, plan); err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	baseline, err := suppression.LoadBaseline(fsys, filepath.Join(suppression.BaselineDir, suppression.BaselineFile))
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}
	suppressions := &suppression.Set{Config: conf.Suppressions, Baseline: baseline}

	trackedPackages := map[string]bool{}
	for pkg := range repoCtx.Dependencies {
		trackedPackages[pkg] = true
	}
	pathAliases := resolver.PathAliases(repoCtx.PathAliases)

	orchOpts := []orchestrator.Option{orchestrator.WithLogger(log)}
	if opts.Workers > 0 {
		orchOpts = append(orchOpts, orchestrator.WithWorkerCount(opts.Workers))
	}
	o := orchestrator.New(orchOpts...)

	var result orchestrator.RunResult
	err = async.WrapWithSuccessSpinners(func(ch async.EventChannel) error {
		ch.SendEvent("analyzing project", async.EventStatusStarted)
		var runErr error
		result, runErr = o.Run(ctx, fsys, plan, repoCtx, store, suppressions, pathAliases, trackedPackages, loadedCache.Entries)
		if runErr != nil {
			ch.SendEvent("analyzing project", async.EventStatusFailure)
			return runErr
		}
		ch.SendEvent("analyzing project", async.EventStatusSuccess)
		return nil
	})
	if err != nil {
		return orchestrator.RunResult{}, nil, err
	}

	if !opts.NoCache {
		if err := cache.Save(fsys, cachePath, &result.Cache); err != nil {
			return orchestrator.RunResult{}, nil, err
		}
	}

	return result, conf, nil
}

// checkSuppressionReasons enforces requireSuppressionReason (§4.5) over
// every file the plan is about to (re)analyze; cached files were already
// validated on the run that produced their cache entry.
func checkSuppressionReasons(fsys afero.Fs, conf *config.Config, plan incremental.RunPlan) error {
	if !conf.RequireSuppressionReason {
		return nil
	}

	byFile := map[string][]suppression.Inline{}
	for _, f := range plan.FilesToAnalyze {
		src, err := afero.ReadFile(fsys, f.Path)
		if err != nil {
			return err
		}
		byFile[f.Path] = suppression.ParseInline(src)
	}

	missing := suppression.MissingReasons(byFile)
	if len(missing) > 0 {
		return errors.Errorf(errSuppressionReasons, len(missing))
	}
	return nil
}
