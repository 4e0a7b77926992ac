// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemm

import (
	"encoding/csv"
	"io"
)

// A Writer writes Rows as CSV. The header is written before the first
// row, or by Flush if no row was written, so the output always starts
// with Header.
type Writer struct {
	w      *csv.Writer
	header bool
	buf    []string
}

// NewWriter returns a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write writes a single row. Output is buffered; call Flush to
// complete it.
func (w *Writer) Write(row Row) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.buf = row.AppendFields(w.buf[:0])
	return w.w.Write(w.buf)
}

// WriteAll writes rows in order and flushes the output.
func (w *Writer) WriteAll(rows []Row) error {
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying io.Writer and
// reports any error that occurred during a previous Write or the
// Flush.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	return w.w.Write(Header)
}
