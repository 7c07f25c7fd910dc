// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used by both the
// document server and the sync client.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a *Logger for the given role label
// (e.g. "life-server") writing JSON to os.Stdout.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name instead of file:line.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

// NewClientLogger constructs a *Logger for the sync client. The terminal UI
// owns stdout, so entries are appended to the file at path instead. When path
// is empty a "logs" file next to the executable is used; if the file cannot
// be opened the logger falls back to os.Stderr.
func NewClientLogger(role, path string) *Logger {
	if path == "" {
		execPath, _ := os.Executable()
		path = filepath.Join(filepath.Dir(execPath), "logs")
	}

	var out io.Writer = os.Stderr
	if logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		out = logFile
	}

	return newLogger(out, role)
}

func newLogger(out io.Writer, role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver and can be enriched without affecting the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithComponent returns a child logger tagged with a "component" field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}

// FromRequest extracts the request-scoped logger attached by the trace id
// middleware.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx. If none has been
// attached, zerolog's default logger is returned, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
