// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRow(t *testing.T) {
	want := Row{BatchSize: 1}
	if diff := cmp.Diff(want, DefaultRow()); diff != "" {
		t.Errorf("DefaultRow mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRow(t *testing.T) {
	got := NewRow(16, 6, 128, 42, 0.25)
	want := Row{
		M: 16, N: 6, K: 128,
		BatchSize: 1,
		LdA:       16, LdB: 6, LdC: 16,
		Reps:    42,
		Seconds: 0.25,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewRow mismatch (-want +got):\n%s", diff)
	}
}

func TestFields(t *testing.T) {
	for _, test := range []struct {
		row  Row
		want string
	}{
		{NewRow(64, 64, 64, 10, 1e-5), "64,64,64,1,0,0,0,64,64,64,0,0,10,1e-05"},
		{NewRow(1, 2, 3, 1, 1), "1,2,3,1,0,0,0,1,2,1,0,0,1,1"},
		{NewRow(64, 48, 128, 7, 0.0123), "64,48,128,1,0,0,0,64,48,64,0,0,7,0.0123"},
		{Row{M: 4, N: 4, K: 4, BatchSize: 16, TransA: true, TransC: true, LdA: 4, LdB: 4, LdC: 4, BatchStrideA: 16, BatchStrideB: 16, Reps: 3, Seconds: 2.5},
			"4,4,4,16,1,0,1,4,4,4,16,16,3,2.5"},
	} {
		fields := test.row.Fields()
		if len(fields) != len(Header) {
			t.Errorf("Fields(%+v) has %d fields, want %d", test.row, len(fields), len(Header))
		}
		if got := strings.Join(fields, ","); got != test.want {
			t.Errorf("Fields(%+v) = %s, want %s", test.row, got, test.want)
		}
	}
}

func TestHeader(t *testing.T) {
	want := "m,n,k,br_size,trans_a,trans_b,trans_c,ld_a,ld_b,ld_c,br_stride_a,br_stride_b,num_reps,time"
	if got := strings.Join(Header, ","); got != want {
		t.Errorf("Header = %s, want %s", got, want)
	}
}
