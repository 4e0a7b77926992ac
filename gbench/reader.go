// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbench

import (
	"fmt"

	"github.com/goccy/go-json"
)

// A FormatError reports an input that is not a Google Benchmark JSON
// document.
type FormatError struct {
	FileName string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: not a benchmark results document: %v", e.FileName, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Unmarshal parses a complete results document held in data. fileName
// is used in error messages; it is purely diagnostic.
func Unmarshal(data []byte, fileName string) (*Document, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	doc := new(Document)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &FormatError{fileName, err}
	}
	return doc, nil
}
