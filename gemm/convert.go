// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemm

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Integer-Ctrl/machine-learning-compilers/benchname"
	"github.com/Integer-Ctrl/machine-learning-compilers/benchunit"
	"github.com/Integer-Ctrl/machine-learning-compilers/gbench"
)

// Schema is the name layout of the BM_matmul family:
//
//	<fixture>/BM_matmul/M:<m>/N:<n>/K:<k>/<run configuration>
var Schema = &benchname.Schema{
	Family:   Family,
	Params:   []string{"m", "n", "k"},
	Trailing: 1,
}

// Stats accounts for every result passed to Convert.
// Total == Converted + Filtered + Errored + Malformed.
type Stats struct {
	Total int

	// Converted results produced a Row.
	Converted int

	// Filtered results belong to another family or are
	// aggregates over repetitions.
	Filtered int

	// Errored results are BM_matmul runs the benchmark itself
	// reported as failed.
	Errored int

	// Malformed results claim BM_matmul but do not follow Schema
	// or carry an unknown time unit.
	Malformed int

	// Seconds is the sum of Row.Seconds over the converted
	// results.
	Seconds float64

	// Err combines one *RecordError per errored or malformed
	// result, in input order. It is nil if there were none.
	Err error
}

// Skipped returns the number of BM_matmul results that did not
// produce a row.
func (s *Stats) Skipped() int {
	return s.Errored + s.Malformed
}

// A RecordError describes a result Convert skipped although it
// belongs to the converted family.
type RecordError struct {
	Index int // position in the input
	Name  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("benchmark #%d %s: %v", e.Index, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

var (
	errAggregate = errors.New("aggregate result")
	errRunFailed = errors.New("benchmark run failed")
)

// Convert decodes results and returns one Row for each BM_matmul run,
// in input order. Results of other families and aggregates are
// filtered out. BM_matmul results that cannot be converted are skipped
// and reported in Stats; no partial row is ever returned.
func Convert(results []gbench.Result) ([]Row, Stats) {
	var (
		rows  []Row
		stats Stats
	)
	stats.Total = len(results)
	for i := range results {
		res := &results[i]
		row, err := convertOne(res)
		switch {
		case err == nil:
			rows = append(rows, row)
			stats.Converted++
			stats.Seconds += row.Seconds
		case errors.Is(err, benchname.ErrOtherFamily) || errors.Is(err, errAggregate):
			stats.Filtered++
		case errors.Is(err, errRunFailed):
			stats.Errored++
			stats.Err = multierr.Append(stats.Err, &RecordError{i, res.Name, err})
		default:
			stats.Malformed++
			stats.Err = multierr.Append(stats.Err, &RecordError{i, res.Name, err})
		}
	}
	return rows, stats
}

func convertOne(res *gbench.Result) (Row, error) {
	if family, ok := benchname.FamilyOf(res.Name); !ok || family != Family {
		return Row{}, benchname.ErrOtherFamily
	}
	// Aggregate names carry a suffix on the last segment, so they
	// decode like runs. Drop them first.
	if res.IsAggregate() {
		return Row{}, errAggregate
	}
	vals, err := Schema.Decode(res.Name)
	if err != nil {
		return Row{}, err
	}
	if res.ErrorOccurred {
		return Row{}, fmt.Errorf("%w: %s", errRunFailed, res.ErrorMessage)
	}
	ns, err := res.RealTimeNanos()
	if err != nil {
		return Row{}, err
	}
	seconds := benchunit.Seconds(ns * float64(res.Iterations))
	return NewRow(vals[0], vals[1], vals[2], res.Iterations, seconds), nil
}
