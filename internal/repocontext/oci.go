// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import (
	"archive/tar"
	"context"
	"io"
	"path"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

// AuthoritySource is one resolved entry from the config's
// authorityDataSources list: either a local filesystem path or an
// OCI-distributed reference.
type AuthoritySource struct {
	// Path is the filesystem root to load, set when this source is a
	// plain directory path.
	Path string
	// Image is set when this source was recognized as an OCI reference
	// (e.g. "registry.example.com/doxy-authority/react:18").
	Image name.Reference
}

// ParseAuthorityDataSources classifies each configured source as a
// filesystem path or an OCI image reference. A source is only attempted
// as an OCI reference when it is not a relative or absolute filesystem
// path, matching the same shape check Import Resolver uses for import
// sources.
func ParseAuthorityDataSources(sources []string) ([]AuthoritySource, error) {
	out := make([]AuthoritySource, 0, len(sources))
	for _, s := range sources {
		if looksLikeFilesystemPath(s) {
			out = append(out, AuthoritySource{Path: s})
			continue
		}

		ref, err := name.ParseReference(s)
		if err != nil {
			// Not a valid OCI reference either; treat as a literal path
			// so relative-looking custom roots still work.
			out = append(out, AuthoritySource{Path: s})
			continue
		}
		out = append(out, AuthoritySource{Image: ref})
	}
	return out, nil
}

func looksLikeFilesystemPath(s string) bool {
	return strings.HasPrefix(s, ".") || strings.HasPrefix(s, "/") || strings.Contains(s, "\\")
}

// FetchImage pulls ref from its registry. It is a thin wrapper so callers
// depend on repocontext's AuthoritySource resolution rather than reaching
// into go-containerregistry directly.
func FetchImage(ctx context.Context, ref name.Reference) (v1.Image, error) {
	return remote.Image(ref, remote.WithContext(ctx))
}

// ExtractImageFS flattens img's entire filesystem into an in-memory
// afero.Fs rooted at "/", the same mutate.Extract flattening used when no
// single annotated xpkg base layer exists, so an authority manifest and
// its spec files baked into an OCI image can be read through the same
// afero.Fs-based loader used for plain directory roots.
func ExtractImageFS(img v1.Image) (afero.Fs, error) {
	rc := mutate.Extract(img)
	defer rc.Close() //nolint:errcheck

	fsys := afero.NewMemMapFs()
	tr := tar.NewReader(rc)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read image filesystem stream")
		}
		if h.Typeflag != tar.TypeReg {
			continue
		}

		p := "/" + strings.TrimPrefix(h.Name, "/")
		if err := fsys.MkdirAll(path.Dir(p), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", p)
		}
		f, err := fsys.Create(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", p)
		}
		if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // authority images are pulled by the operator's own configured source, not untrusted input.
			_ = f.Close()
			return nil, errors.Wrapf(err, "failed to write %s", p)
		}
		if err := f.Close(); err != nil {
			return nil, errors.Wrapf(err, "failed to close %s", p)
		}
	}
	return fsys, nil
}
