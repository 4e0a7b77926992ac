// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbench reads the JSON results written by Google Benchmark
// (--benchmark_out_format=json).
//
// A results file is a single document holding a "context" object that
// describes the machine and an ordered "benchmarks" array with one
// entry per run. The reader decodes the whole document at once; files
// are small enough that streaming buys nothing.
package gbench

import "github.com/Integer-Ctrl/machine-learning-compilers/benchunit"

// A Document is a complete Google Benchmark results file.
type Document struct {
	Context Context `json:"context"`

	// Benchmarks is the ordered list of results. It is empty if the
	// file has no "benchmarks" field.
	Benchmarks []Result `json:"benchmarks"`
}

// Context describes the machine and build that produced a Document.
type Context struct {
	Date              string  `json:"date"`
	HostName          string  `json:"host_name"`
	Executable        string  `json:"executable"`
	NumCPUs           int     `json:"num_cpus"`
	MHzPerCPU         float64 `json:"mhz_per_cpu"`
	CPUScalingEnabled bool    `json:"cpu_scaling_enabled"`
	LibraryBuildType  string  `json:"library_build_type"`
}

// Run types reported in Result.RunType.
const (
	RunIteration = "iteration"
	RunAggregate = "aggregate"
)

// A Result is a single benchmark run and its measurements.
type Result struct {
	// Name is the full benchmark name, including fixture,
	// family, arguments and run configuration.
	Name string `json:"name"`

	// RunName is Name without any aggregate suffix.
	RunName string `json:"run_name"`

	// RunType is RunIteration for a measured run or RunAggregate
	// for a statistic computed over repetitions.
	RunType string `json:"run_type"`

	// AggregateName is "mean", "median", "stddev", ... for
	// aggregate results.
	AggregateName string `json:"aggregate_name"`

	Repetitions     int `json:"repetitions"`
	RepetitionIndex int `json:"repetition_index"`
	Threads         int `json:"threads"`

	// Iterations is the number of times the benchmarked operation
	// ran within this timed result.
	Iterations int64 `json:"iterations"`

	// RealTime and CPUTime are per-iteration averages measured in
	// TimeUnit.
	RealTime float64 `json:"real_time"`
	CPUTime  float64 `json:"cpu_time"`

	// TimeUnit is "ns", "us", "ms" or "s". Older reporters omit
	// it, which means "ns".
	TimeUnit string `json:"time_unit"`

	ErrorOccurred bool   `json:"error_occurred"`
	ErrorMessage  string `json:"error_message"`
}

// IsAggregate reports whether r is a statistic over repetitions rather
// than a measured run.
func (r *Result) IsAggregate() bool {
	return r.RunType == RunAggregate
}

// RealTimeNanos returns the per-iteration real time in nanoseconds.
func (r *Result) RealTimeNanos() (float64, error) {
	return benchunit.Nanoseconds(r.RealTime, r.TimeUnit)
}
