// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemm

import (
	"os"

	"github.com/Integer-Ctrl/machine-learning-compilers/gbench"
)

// ConvertFile converts the Google Benchmark results file at inPath and
// writes the rows to a new CSV file at outPath, replacing any existing
// file.
//
// Failing to read or parse the input, or to write the output, is
// returned as an error naming the path. The output file is not touched
// unless the input parsed. Skipped BM_matmul results are not an error;
// they are reported in the returned Stats.
func ConvertFile(inPath, outPath string) (Stats, error) {
	doc, err := gbench.ReadFile(inPath)
	if err != nil {
		return Stats{}, err
	}
	rows, stats := Convert(doc.Benchmarks)

	f, err := os.Create(outPath)
	if err != nil {
		return stats, err
	}
	if err := NewWriter(f).WriteAll(rows); err != nil {
		f.Close()
		return stats, &os.PathError{Op: "write", Path: outPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}
