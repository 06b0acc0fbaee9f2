// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging provides leveled logging for training runs, and an
// optional JSONL trace of per-trial events.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LevelTrace is a custom slog level below Debug, at which every trial is logged
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text slog.Logger writing to w
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

// Trace writes events as JSON lines.  It is safe for concurrent use, and
// a nil Trace is a no-op.
type Trace struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// NewTrace returns a Trace writing to w
func NewTrace(w io.Writer) *Trace {
	return &Trace{w: w}
}

// OpenTrace opens (appending) a Trace file at path, creating its directory
func OpenTrace(path string) (*Trace, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Trace{w: f, c: f}, nil
}

// Log writes one event as a single line, with its kind under "event"
func (tr *Trace) Log(kind string, event any) error {
	if tr == nil || tr.w == nil {
		return nil
	}
	data, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{kind, event})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tr.mu.Lock()
	defer tr.mu.Unlock()
	_, err = tr.w.Write(data)
	return err
}

// Close closes the underlying file, if any
func (tr *Trace) Close() error {
	if tr == nil || tr.c == nil {
		return nil
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	err := tr.c.Close()
	tr.c = nil
	tr.w = nil
	return err
}
