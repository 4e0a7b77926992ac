// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gemm turns Google Benchmark results of the BM_matmul family
// into the fixed tabular GEMM configuration format: one row per
// measured run, giving the matrix shape, the layout parameters of a
// plain (non-batched, non-transposed) GEMM and the total measured time.
package gemm

import "strconv"

// Family is the benchmark family that Convert accepts.
const Family = "BM_matmul"

// Header is the CSV header, in column order.
var Header = []string{
	"m", "n", "k",
	"br_size",
	"trans_a", "trans_b", "trans_c",
	"ld_a", "ld_b", "ld_c",
	"br_stride_a", "br_stride_b",
	"num_reps",
	"time",
}

// A Row is one normalized GEMM measurement.
type Row struct {
	M, N, K int64

	// BatchSize is the batch-reduce size.
	BatchSize int64

	TransA, TransB, TransC bool

	// Leading dimensions of A, B and C.
	LdA, LdB, LdC int64

	// Batch-reduce strides of A and B.
	BatchStrideA, BatchStrideB int64

	// Reps is the number of iterations the measurement covers.
	Reps int64

	// Seconds is the total real time of all Reps iterations.
	Seconds float64
}

// DefaultRow returns a Row holding the values BM_matmul never varies:
// a batch size of one, no transposition and zero batch strides.
func DefaultRow() Row {
	return Row{BatchSize: 1}
}

// NewRow returns the row for an m×n×k measurement over reps iterations
// totalling seconds. Leading dimensions derive from the shape: m for A
// and C, n for B.
func NewRow(m, n, k, reps int64, seconds float64) Row {
	row := DefaultRow()
	row.M, row.N, row.K = m, n, k
	row.LdA, row.LdB, row.LdC = m, n, m
	row.Reps = reps
	row.Seconds = seconds
	return row
}

// Fields returns the CSV encoding of r in Header order.
func (r *Row) Fields() []string {
	return r.AppendFields(make([]string, 0, len(Header)))
}

// AppendFields appends the CSV encoding of r to fields.
func (r *Row) AppendFields(fields []string) []string {
	return append(fields,
		itoa(r.M), itoa(r.N), itoa(r.K),
		itoa(r.BatchSize),
		btoa(r.TransA), btoa(r.TransB), btoa(r.TransC),
		itoa(r.LdA), itoa(r.LdB), itoa(r.LdC),
		itoa(r.BatchStrideA), itoa(r.BatchStrideB),
		itoa(r.Reps),
		strconv.FormatFloat(r.Seconds, 'g', -1, 64),
	)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
