// Copyright 2025 Upbound Inc.
// All rights reserved

package authority

import (
	"strings"

	goyaml "github.com/goccy/go-yaml"
)

// yamlSibling maps a "<pkg>/<major>.x.json" path to its YAML sibling, for
// hand-maintained authority packs that prefer YAML over JSON.
func yamlSibling(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, ".json") + ".yaml"
}

func parseSpecFileYAML(b []byte) (*specFile, error) {
	var sf specFile
	if err := goyaml.Unmarshal(b, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}
