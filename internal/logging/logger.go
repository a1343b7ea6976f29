// Copyright 2025 Upbound Inc.
// All rights reserved

// Package logging provides the CLI's logging backend, built on
// crossplane-runtime's logging.Logger (itself a thin wrapper around
// go-logr/logr) so every component in doxy shares one structured logger
// regardless of whether it is embedded as a library or run from cmd/doxy.
package logging

import (
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
)

// NewCLILogger constructs the logger used by the doxy CLI. verbose enables
// development-mode (human-friendly, debug-level) zap output; otherwise a
// production JSON encoder is used so CI consumers can parse log lines.
// Any third-party parser or framework plug-in that logs through klog is
// bridged into the same sink via SetKlogLogger so `doxy check --verbose`
// produces one coherent log stream.
func NewCLILogger(verbose bool) logging.Logger {
	zl := zap.New(zap.UseDevMode(verbose))
	log := logging.NewLogrLogger(zl.WithName("doxy"))

	debugLevel := 0
	if verbose {
		debugLevel = 1
	}
	SetKlogLogger(debugLevel, zl)

	return log
}
