// Copyright 2025 Upbound Inc.
// All rights reserved

// NOTE(negz): See the below link for details on what is happening here.
// https://github.com/golang/go/wiki/Modules#how-can-i-track-tool-dependencies-for-a-module

//go:build generate
// +build generate

// Add license headers to all files.
//go:generate go run -tags generate github.com/google/addlicense -v -ignore **/testdata/** -ignore **/_examples/** -f ../hack/boilerplate.txt . ../cmd

package internal

import (
	_ "github.com/google/addlicense" //nolint:typecheck
)
