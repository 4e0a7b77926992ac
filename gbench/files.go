// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbench

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Open opens the results file at path for reading. Files ending in
// ".gz" or ".zst" are decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, &os.PathError{Op: "gunzip", Path: path, Err: err}
		}
		return &decompressor{zr, zr.Close, f}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, &os.PathError{Op: "unzstd", Path: path, Err: err}
		}
		return &decompressor{zr, func() error { zr.Close(); return nil }, f}, nil
	}
	return f, nil
}

// decompressor closes both the decompression stream and the file
// underneath it.
type decompressor struct {
	io.Reader
	closeStream func() error
	file        *os.File
}

func (d *decompressor) Close() error {
	err := d.closeStream()
	if err2 := d.file.Close(); err == nil {
		err = err2
	}
	return err
}

// ReadFile reads the complete results document at path. A missing or
// unreadable file yields an *os.PathError; content that does not parse
// yields a *FormatError. Both name path.
func ReadFile(path string) (*Document, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &os.PathError{Op: "read", Path: path, Err: err}
	}
	return Unmarshal(data, path)
}
