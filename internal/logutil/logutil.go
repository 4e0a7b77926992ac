// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logutil builds the loggers used by the commands.
package logutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger named after the command that writes
// human-readable lines to stderr, without timestamps.
func New(name string) *zap.Logger {
	return NewTo(name, zapcore.Lock(os.Stderr), zapcore.InfoLevel)
}

// NewTo is like New but writes entries at or above level to w.
func NewTo(name string, w zapcore.WriteSyncer, level zapcore.LevelEnabler) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), w, level)
	return zap.New(core).Named(name)
}
