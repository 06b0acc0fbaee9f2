// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists the outcomes and trial records of training runs,
// in memory or in a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/emer/dacolumn/column"
)

// ErrNotInit is returned by stores used before Init or after Close
var ErrNotInit = errors.New("store is not initialized")

// Record is the saved outcome of one run
type Record struct {
	RunID   string         `json:"run_id"`
	Outcome column.Outcome `json:"outcome"`
}

// Store saves run outcomes and per-trial results, keyed by run id.
// Implementations are safe for concurrent use.
type Store interface {
	Init(ctx context.Context) error
	SaveOutcome(ctx context.Context, runID string, oc column.Outcome) error
	GetOutcome(ctx context.Context, runID string) (column.Outcome, bool, error)
	ListOutcomes(ctx context.Context) ([]Record, error)
	SaveTrial(ctx context.Context, runID string, res column.TrialResult) error
	GetTrials(ctx context.Context, runID string) ([]column.TrialResult, error)
	Close() error
}

// New returns an uninitialized store of the given kind: "memory" (or
// empty) or "sqlite", which uses the database file at path
func New(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		if path == "" {
			return nil, errors.New("sqlite path is required")
		}
		return NewSQLite(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// RunID returns the default id of a run for the given seed
func RunID(seed uint64) string {
	return fmt.Sprintf("seed-%06d", seed)
}
