// Copyright 2024 Upbound Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filesystem contains utilities for working with filesystems.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const errFmtAtomicRename = "failed to move temp file %s into place at %s"

// AtomicWriteFile writes data to path by first writing to a sibling temp
// file and renaming it into place, so that a reader never observes a
// partially written file and a crash mid-write leaves the previous
// contents (or nothing) rather than corrupt data.
func AtomicWriteFile(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := afero.TempFile(fsys, dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := fsys.Chmod(tmpName, perm); err != nil {
		_ = fsys.Remove(tmpName)
		return errors.Wrap(err, "failed to set temp file permissions")
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return errors.Wrapf(err, errFmtAtomicRename, tmpName, path)
	}

	return nil
}

// IsFsEmpty checks if the filesystem is empty.
func IsFsEmpty(fsys afero.Fs) (bool, error) {
	// Check if the root directory (".") exists
	_, err := fsys.Stat(".")
	if err != nil {
		if os.IsNotExist(err) {
			// If the directory doesn't exist, consider it as empty
			return true, nil
		}
		return false, err
	}

	isEmpty, err := afero.IsEmpty(fsys, ".")
	if err != nil {
		return false, err
	}

	return isEmpty, nil
}
