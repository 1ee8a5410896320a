// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package npulog is a thin, level-tagged wrapper over the standard
// library's log package. It deliberately is not a structured logger: logging
// here stays on plain log.Printf, with call sites getting a Warnf/Errorf/Infof
// that tag the level in the message prefix.
package npulog

import (
	"log"
	"os"
)

// Logger wraps a *log.Logger with level-tagged helpers.
type Logger struct {
	l *log.Logger
}

// Default is the logger behind the package-level Infof/Warnf/Errorf used
// throughout the core; tests may substitute their own via New.
var Default = New(os.Stderr, "npu: ")

// New returns a Logger writing to w with the given prefix.
func New(w *os.File, prefix string) *Logger {
	return &Logger{l: log.New(w, prefix, log.LstdFlags)}
}

// Infof logs an informational message.
func (lg *Logger) Infof(format string, args ...any) {
	lg.l.Printf("INFO "+format, args...)
}

// Warnf logs a warning, such as a skipped genome edit key or an unrecognized
// parameter update. Errors returned to callers are not logged here.
func (lg *Logger) Warnf(format string, args ...any) {
	lg.l.Printf("WARN "+format, args...)
}

// Errorf logs an error, such as a failed structural rebuild.
func (lg *Logger) Errorf(format string, args ...any) {
	lg.l.Printf("ERROR "+format, args...)
}

func Infof(format string, args ...any)  { Default.Infof(format, args...) }
func Warnf(format string, args ...any)  { Default.Warnf(format, args...) }
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
