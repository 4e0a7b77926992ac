// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit converts benchmark time units and formats numbers
// in those units.
package benchunit

import "fmt"

// timeFactors maps a Google Benchmark time_unit to the number of
// nanoseconds in one unit. The empty unit is the reporter's default.
var timeFactors = map[string]float64{
	"":   1,
	"ns": 1,
	"us": 1e3,
	"ms": 1e6,
	"s":  1e9,
}

// An UnknownUnitError reports a time unit Nanoseconds cannot convert.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown time unit %q", e.Unit)
}

// Nanoseconds converts value, measured in unit, to nanoseconds.
// Values already in nanoseconds are returned unchanged, so no rounding
// is introduced for the common case.
func Nanoseconds(value float64, unit string) (float64, error) {
	factor, ok := timeFactors[unit]
	if !ok {
		return 0, &UnknownUnitError{unit}
	}
	if factor == 1 {
		return value, nil
	}
	return value * factor, nil
}

// Seconds converts a duration in nanoseconds to seconds.
func Seconds(ns float64) float64 {
	return ns * 1e-9
}
