// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/emer/dacolumn/column"

	_ "modernc.org/sqlite"
)

// SQLite stores outcomes and trials in a database file.  Records are kept
// as JSON payloads, with the fields used for queries also in columns.
type SQLite struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// one connection serializes writers on the file
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLite) SaveOutcome(ctx context.Context, runID string, oc column.Outcome) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(oc)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, seed, status, score, iter, expected, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			seed = excluded.seed,
			status = excluded.status,
			score = excluded.score,
			iter = excluded.iter,
			expected = excluded.expected,
			payload = excluded.payload
	`, runID, int64(oc.Seed), oc.Status.String(), oc.Score, oc.Iter, float64(oc.Expected), payload)
	return err
}

func (s *SQLite) GetOutcome(ctx context.Context, runID string) (column.Outcome, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return column.Outcome{}, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM outcomes WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return column.Outcome{}, false, nil
		}
		return column.Outcome{}, false, err
	}
	var oc column.Outcome
	if err := json.Unmarshal(payload, &oc); err != nil {
		return column.Outcome{}, false, fmt.Errorf("decode outcome %s: %w", runID, err)
	}
	return oc, true, nil
}

// ListOutcomes returns all outcomes, ordered by run id
func (s *SQLite) ListOutcomes(ctx context.Context) ([]Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT run_id, payload FROM outcomes ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var rec Record
		var payload []byte
		if err := rows.Scan(&rec.RunID, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &rec.Outcome); err != nil {
			return nil, fmt.Errorf("decode outcome %s: %w", rec.RunID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveTrial saves a trial result, replacing any earlier result with the same index
func (s *SQLite) SaveTrial(ctx context.Context, runID string, res column.TrialResult) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO trials (run_id, idx, label, expected, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO UPDATE SET
			label = excluded.label,
			expected = excluded.expected,
			payload = excluded.payload
	`, runID, res.Index, res.Label, float64(res.Expected), payload)
	return err
}

// GetTrials returns the trial results of a run, ordered by index
func (s *SQLite) GetTrials(ctx context.Context, runID string) ([]column.TrialResult, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT payload FROM trials WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var trs []column.TrialResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var res column.TrialResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("decode trial of %s: %w", runID, err)
		}
		trs = append(trs, res)
	}
	return trs, rows.Err()
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInit
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			status TEXT NOT NULL,
			score REAL NOT NULL,
			iter INTEGER NOT NULL,
			expected REAL NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS trials (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			label INTEGER NOT NULL,
			expected REAL NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, idx)
		);
	`)
	return err
}
