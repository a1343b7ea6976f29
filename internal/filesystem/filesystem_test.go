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

package filesystem

import (
	"testing"

	"github.com/spf13/afero"
)

func TestAtomicWriteFile(t *testing.T) {
	fsys := afero.NewMemMapFs()

	if err := AtomicWriteFile(fsys, "/cache/cache.json", []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile(...): unexpected error: %v", err)
	}

	got, err := afero.ReadFile(fsys, "/cache/cache.json")
	if err != nil {
		t.Fatalf("ReadFile(...): unexpected error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("AtomicWriteFile(...): got %q, want %q", got, `{"a":1}`)
	}

	entries, err := afero.ReadDir(fsys, "/cache")
	if err != nil {
		t.Fatalf("ReadDir(...): unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("AtomicWriteFile(...): left %d entries behind in /cache, want 1 (no leftover temp file)", len(entries))
	}
}

func TestIsFsEmpty(t *testing.T) {
	empty := afero.NewMemMapFs()
	ok, err := IsFsEmpty(empty)
	if err != nil {
		t.Fatalf("IsFsEmpty(...): unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("IsFsEmpty(...): got false, want true for a fresh MemMapFs")
	}

	nonEmpty := afero.NewMemMapFs()
	if err := afero.WriteFile(nonEmpty, "/a.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile(...): unexpected error: %v", err)
	}
	ok, err = IsFsEmpty(nonEmpty)
	if err != nil {
		t.Fatalf("IsFsEmpty(...): unexpected error: %v", err)
	}
	if ok {
		t.Errorf("IsFsEmpty(...): got true, want false once a file has been written")
	}
}
