// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Gemmcsv converts Google Benchmark JSON results of the BM_matmul
// benchmark into the GEMM configuration CSV format.
//
// Usage:
//
//	gemmcsv input.json output.csv
//
// The input is the file written by a benchmark binary run with
// --benchmark_out=input.json --benchmark_out_format=json. It may be
// compressed with gzip (.gz) or zstd (.zst). Results of other
// benchmark families are ignored. The output is created or replaced
// and has one row per BM_matmul run, in input order, with the columns
//
//	m,n,k,br_size,trans_a,trans_b,trans_c,ld_a,ld_b,ld_c,br_stride_a,br_stride_b,num_reps,time
//
// where time is the total real time of all num_reps iterations in
// seconds.
//
// BM_matmul results whose names do not have the expected
// fixture/BM_matmul/M:m/N:n/K:k/config layout, and runs the benchmark
// reported as failed, are skipped; gemmcsv reports how many at the end.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Integer-Ctrl/machine-learning-compilers/benchunit"
	"github.com/Integer-Ctrl/machine-learning-compilers/gemm"
	"github.com/Integer-Ctrl/machine-learning-compilers/internal/logutil"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: gemmcsv input.json output.csv

gemmcsv converts the BM_matmul results in a Google Benchmark JSON file
into GEMM configuration CSV.
`)
	flag.PrintDefaults()
}

func main() {
	log := logutil.New("gemmcsv")
	defer log.Sync()

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, log, flag.Arg(0), flag.Arg(1)); err != nil {
		log.Fatal("conversion failed", zap.Error(err))
	}
}

func run(stdout io.Writer, log *zap.Logger, inPath, outPath string) error {
	stats, err := gemm.ConvertFile(inPath, outPath)
	if err != nil {
		return err
	}

	log.Info("converted",
		zap.Int("results", stats.Total),
		zap.Int("rows", stats.Converted),
		zap.Int("filtered", stats.Filtered),
		zap.String("measured", benchunit.Scale(stats.Seconds)+"sec"),
	)
	if n := stats.Skipped(); n > 0 {
		log.Warn("skipped BM_matmul results",
			zap.Int("skipped", n),
			zap.Int("malformed", stats.Malformed),
			zap.Int("errored", stats.Errored),
			zap.Error(stats.Err),
		)
	}
	fmt.Fprintf(stdout, "Converted JSON: %s\n        to CSV: %s\n", inPath, outPath)
	return nil
}
