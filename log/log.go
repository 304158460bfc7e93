// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled-logging helper in the style the rest of
// this codebase expects: a Logger sink, a Helper that adds printf-style
// convenience methods, and a Filter that drops records below a level.
//
// It exists because the upstream package this module's reader/writer code
// was modeled on reaches for exactly this shape (NewStdLogger, NewHelper,
// NewFilter(logger, FilterLevel(...))) from its own internal log
// subpackage; that subpackage wasn't available to vendor, so it is
// reconstructed here with the same call surface.
package log

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level is a log severity.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every helper and filter wraps.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes formatted records to an io.Writer via the standard
// library logger.
type stdLogger struct {
	mu  sync.Mutex
	std *log.Logger
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(keyvals) == 0 {
		return nil
	}
	l.std.Printf("[%s] %s", level, fmt.Sprint(keyvals...))
	return nil
}

// filterLogger wraps a Logger, dropping records below a minimum level.
type filterLogger struct {
	next Logger
	min  Level
}

// Option configures a Filter.
type Option func(*filterLogger)

// FilterLevel sets the minimum level that passes the filter.
func FilterLevel(level Level) Option {
	return func(f *filterLogger) { f.min = level }
}

// NewFilter wraps next with the given options.
func NewFilter(next Logger, opts ...Option) Logger {
	f := &filterLogger{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filterLogger) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugf/Infof/Warnf/Errorf/Fatalf methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }
func (h *Helper) Fatalf(format string, args ...interface{}) { h.log(LevelFatal, format, args...) }
