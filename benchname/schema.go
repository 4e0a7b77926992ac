// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchname decodes the parameter encoding embedded in Google
// Benchmark result names.
//
// A name has the form
//
//	<namespace>/<family>/<param1>:<value1>/.../<paramN>:<valueN>/<marker>
//
// where namespace is usually the fixture class, family is the
// registered benchmark function, the parameters appear in the order the
// benchmark declared its ArgNames, and marker is trailing run
// configuration such as "min_warmup_time:1.000" that carries no
// parameter. For example:
//
//	GemmFixture/BM_matmul/M:64/N:32/K:16/min_warmup_time:1.000
//
// A Schema describes the layout one family uses; decoding validates the
// family and the segment count and extracts every parameter in a single
// pass.
package benchname

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sep separates the segments of a benchmark name.
const Sep = "/"

// ErrOtherFamily is returned by Schema.Decode for names that belong to
// a different benchmark family. It is not a malformed name; callers
// are expected to skip such records.
var ErrOtherFamily = errors.New("benchmark belongs to another family")

// A Schema is the fixed name layout of one benchmark family.
type Schema struct {
	// Family is the expected value of segment 1.
	Family string

	// Params names the integer parameters in segment order,
	// starting at segment 2. The names document each position's
	// role; decoding does not compare them against the name text.
	Params []string

	// Trailing is the number of ignored segments after the last
	// parameter.
	Trailing int
}

// Segments returns the total number of "/"-separated segments in a
// name that matches s.
func (s *Schema) Segments() int {
	return 2 + len(s.Params) + s.Trailing
}

// A MalformedError reports a name that claims the schema's family but
// does not follow its layout.
type MalformedError struct {
	Name   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed benchmark name %q: %s", e.Name, e.Reason)
}

// FamilyOf returns segment 1 of name. ok is false if name has fewer
// than two segments.
func FamilyOf(name string) (family string, ok bool) {
	_, rest, found := strings.Cut(name, Sep)
	if !found {
		return "", false
	}
	family, _, _ = strings.Cut(rest, Sep)
	return family, true
}

// Decode extracts the parameters of name in schema order.
//
// If name is not in s's family, Decode returns ErrOtherFamily. If it is
// in the family but has the wrong number of segments or a parameter
// value that is not an integer, Decode returns a *MalformedError and no
// values.
func (s *Schema) Decode(name string) ([]int64, error) {
	if family, ok := FamilyOf(name); !ok || family != s.Family {
		return nil, ErrOtherFamily
	}
	parts := strings.Split(name, Sep)
	if len(parts) != s.Segments() {
		return nil, &MalformedError{name, fmt.Sprintf("have %d segments, want %d", len(parts), s.Segments())}
	}
	vals := make([]int64, len(s.Params))
	for i, param := range s.Params {
		v, err := ParamValue(parts[2+i])
		if err != nil {
			return nil, &MalformedError{name, fmt.Sprintf("parameter %s: %v", param, err)}
		}
		vals[i] = v
	}
	return vals, nil
}

// ParamValue parses the integer value of a "name:value" segment. The
// value is the text after the last ":"; a segment without ":" is
// parsed whole.
func ParamValue(segment string) (int64, error) {
	val := segment
	if i := strings.LastIndex(segment, ":"); i >= 0 {
		val = segment[i+1:]
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return 0, fmt.Errorf("%q: %w", val, err)
	}
	return v, nil
}
