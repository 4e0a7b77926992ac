// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemm

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/Integer-Ctrl/machine-learning-compilers/benchname"
	"github.com/Integer-Ctrl/machine-learning-compilers/gbench"
)

// run returns an iteration result for name measured in nanoseconds.
func run(name string, realTime float64, iters int64) gbench.Result {
	return gbench.Result{
		Name:       name,
		RunName:    name,
		RunType:    gbench.RunIteration,
		Iterations: iters,
		RealTime:   realTime,
		TimeUnit:   "ns",
	}
}

func checkStats(t *testing.T, s Stats) {
	t.Helper()
	if sum := s.Converted + s.Filtered + s.Errored + s.Malformed; sum != s.Total {
		t.Errorf("stats %+v do not add up: %d != %d", s, sum, s.Total)
	}
}

func TestConvertScenario(t *testing.T) {
	rows, stats := Convert([]gbench.Result{
		run("BM_matmul/BM_matmul/m:64/n:64/k:64/iterations:10", 1000, 10),
	})
	checkStats(t, stats)
	want := []Row{{
		M: 64, N: 64, K: 64,
		BatchSize: 1,
		LdA:       64, LdB: 64, LdC: 64,
		Reps:    10,
		Seconds: 1e-5,
	}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if stats.Total != 1 || stats.Converted != 1 || stats.Err != nil {
		t.Errorf("stats = %+v, want one converted result", stats)
	}
}

func TestConvertFilters(t *testing.T) {
	rows, stats := Convert([]gbench.Result{
		run("BrGemmFixture/BM_brMatmul/M:1/N:1/K:1/Batch:16/min_warmup_time:0.300", 500, 4),
		run("GemmFixture/BM_matmul/M:2/N:3/K:4/min_warmup_time:1.000", 1e8, 10),
	})
	checkStats(t, stats)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].M != 2 || rows[0].N != 3 || rows[0].K != 4 {
		t.Errorf("got row %+v, want the BM_matmul result", rows[0])
	}
	if stats.Filtered != 1 || stats.Converted != 1 {
		t.Errorf("stats = %+v, want 1 filtered and 1 converted", stats)
	}
}

func TestConvertNoFamily(t *testing.T) {
	for _, results := range [][]gbench.Result{
		nil,
		{},
		{
			run("BrGemmFixture/BM_brMatmul/M:1/N:1/K:1/Batch:16/min_warmup_time:0.300", 1, 1),
			run("BM_unary_zero/64/64", 1, 1),
			run("BM_matmul", 1, 1),
		},
	} {
		rows, stats := Convert(results)
		checkStats(t, stats)
		if len(rows) != 0 {
			t.Errorf("got rows %+v, want none", rows)
		}
		if stats.Filtered != len(results) || stats.Err != nil {
			t.Errorf("stats = %+v, want everything filtered", stats)
		}
	}
}

func TestConvertOrder(t *testing.T) {
	var results []gbench.Result
	var want []int64
	for i := int64(1); i <= 20; i++ {
		name := "GemmFixture/BM_matmul/M:" + itoa(i) + "/N:1/K:1/min_warmup_time:1.000"
		if i%3 == 0 {
			name = "BrGemmFixture/BM_brMatmul/M:" + itoa(i) + "/N:1/K:1/Batch:16/w"
		} else {
			want = append(want, i)
		}
		results = append(results, run(name, 1, 1))
	}
	rows, stats := Convert(results)
	checkStats(t, stats)
	var got []int64
	for _, r := range rows {
		got = append(got, r.M)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertDerived(t *testing.T) {
	for _, test := range []struct {
		res gbench.Result
	}{
		{run("x/BM_matmul/M:1/N:1/K:1/w", 1000, 10)},
		{run("x/BM_matmul/M:16/N:6/K:64/w", 123.456, 98765)},
		{run("x/BM_matmul/M:64/N:1/K:128/w", 0.5, 3)},
	} {
		rows, _ := Convert([]gbench.Result{test.res})
		if len(rows) != 1 {
			t.Fatalf("%s: got %d rows", test.res.Name, len(rows))
		}
		row := rows[0]
		want := test.res.RealTime * float64(test.res.Iterations) * 1e-9
		if row.Seconds != want {
			t.Errorf("%s: Seconds = %v, want %v", test.res.Name, row.Seconds, want)
		}
		if row.Reps != test.res.Iterations {
			t.Errorf("%s: Reps = %d, want %d", test.res.Name, row.Reps, test.res.Iterations)
		}
		if row.LdA != row.M || row.LdB != row.N || row.LdC != row.M {
			t.Errorf("%s: leading dimensions %d,%d,%d for %dx%d", test.res.Name, row.LdA, row.LdB, row.LdC, row.M, row.N)
		}
		if row.BatchSize != 1 || row.TransA || row.TransB || row.TransC || row.BatchStrideA != 0 || row.BatchStrideB != 0 {
			t.Errorf("%s: family defaults changed: %+v", test.res.Name, row)
		}
	}
}

func TestConvertTimeUnits(t *testing.T) {
	for _, unit := range []struct {
		name  string
		value float64
	}{
		{"ns", 1000},
		{"us", 1},
		{"ms", 0.001},
		{"s", 0.000001},
	} {
		res := run("x/BM_matmul/M:1/N:1/K:1/w", unit.value, 10)
		res.TimeUnit = unit.name
		rows, stats := Convert([]gbench.Result{res})
		if len(rows) != 1 {
			t.Fatalf("unit %s: got %d rows, stats %+v", unit.name, len(rows), stats)
		}
		if math.Abs(rows[0].Seconds-1e-5) > 1e-18 {
			t.Errorf("unit %s: Seconds = %v, want 1e-5", unit.name, rows[0].Seconds)
		}
	}
}

func TestConvertAggregates(t *testing.T) {
	base := "GemmFixture/BM_matmul/M:8/N:8/K:8/repeats:3"
	results := []gbench.Result{run(base, 10, 100), run(base, 11, 100), run(base, 12, 100)}
	for _, agg := range []string{"mean", "median", "stddev"} {
		r := run(base+"_"+agg, 11, 3)
		r.RunType = gbench.RunAggregate
		r.AggregateName = agg
		results = append(results, r)
	}
	rows, stats := Convert(results)
	checkStats(t, stats)
	if len(rows) != 3 || stats.Filtered != 3 || stats.Err != nil {
		t.Errorf("got %d rows, stats %+v; want 3 rows and 3 filtered aggregates", len(rows), stats)
	}
}

func TestConvertMalformed(t *testing.T) {
	failed := run("GemmFixture/BM_matmul/M:2/N:2/K:2/w", 0, 0)
	failed.ErrorOccurred = true
	failed.ErrorMessage = "kernel generation failed"
	badUnit := run("GemmFixture/BM_matmul/M:2/N:2/K:2/w", 5, 5)
	badUnit.TimeUnit = "min"

	results := []gbench.Result{
		run("GemmFixture/BM_matmul/M:1/N:1/K:1/w", 1000, 10),
		run("GemmFixture/BM_matmul/M:1/N:1/K:1", 1000, 10),
		run("GemmFixture/BM_matmul/M:x/N:1/K:1/w", 1000, 10),
		failed,
		badUnit,
		run("GemmFixture/BM_matmul/M:3/N:3/K:3/w", 1000, 10),
	}
	rows, stats := Convert(results)
	checkStats(t, stats)

	if len(rows) != 2 || rows[0].M != 1 || rows[1].M != 3 {
		t.Errorf("got rows %+v, want the two well-formed results", rows)
	}
	if stats.Malformed != 3 || stats.Errored != 1 || stats.Skipped() != 4 {
		t.Errorf("stats = %+v, want 3 malformed and 1 errored", stats)
	}

	errs := multierr.Errors(stats.Err)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), stats.Err)
	}
	var idx []int
	for _, err := range errs {
		var rerr *RecordError
		if !errors.As(err, &rerr) {
			t.Fatalf("error %v is not a *RecordError", err)
		}
		idx = append(idx, rerr.Index)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, idx); diff != "" {
		t.Errorf("error indexes mismatch (-want +got):\n%s", diff)
	}
	var merr *benchname.MalformedError
	if !errors.As(errs[0], &merr) {
		t.Errorf("first error %v does not wrap a *MalformedError", errs[0])
	}
	if !errors.Is(errs[2], errRunFailed) {
		t.Errorf("third error %v does not report the failed run", errs[2])
	}
}
