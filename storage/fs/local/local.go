// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local implements the fs.FS interface on a directory of the
// local filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/Integer-Ctrl/machine-learning-compilers/storage/fs"
)

// MetaSuffix is appended to a file's name to form the name of the
// JSON file holding its metadata.
const MetaSuffix = ".meta.json"

// FS stores files under a root directory. File names use forward
// slashes and must stay inside the root.
type FS struct {
	root string
}

// NewFS returns an FS rooted at dir, creating dir if needed.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return nil, err
	}
	return &FS{root: dir}, nil
}

// NewWriter returns a Writer for name. The file appears under its
// final name only when the Writer is closed. Non-empty metadata is
// stored next to it in name+MetaSuffix.
func (f *FS) NewWriter(_ context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("local: invalid file name %q", name)
	}
	path := filepath.Join(f.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return nil, err
	}
	return &writer{tmp: tmp, path: path, metadata: metadata}, nil
}

type writer struct {
	tmp      *os.File
	path     string
	metadata map[string]string
}

func (w *writer) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

func (w *writer) Close() error {
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return err
	}
	if len(w.metadata) > 0 {
		data, err := json.MarshalIndent(w.metadata, "", "\t")
		if err != nil {
			os.Remove(w.tmp.Name())
			return err
		}
		if err := os.WriteFile(w.path+MetaSuffix, append(data, '\n'), 0o666); err != nil {
			os.Remove(w.tmp.Name())
			return err
		}
	}
	return os.Rename(w.tmp.Name(), w.path)
}

func (w *writer) CloseWithError(error) error {
	w.tmp.Close()
	return os.Remove(w.tmp.Name())
}
