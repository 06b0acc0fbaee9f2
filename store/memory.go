// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/emer/dacolumn/column"
)

// Memory keeps everything in maps, for tests and single runs
type Memory struct {
	mu       sync.RWMutex
	outcomes map[string]column.Outcome
	trials   map[string][]column.TrialResult
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outcomes = make(map[string]column.Outcome)
	s.trials = make(map[string][]column.TrialResult)
	return nil
}

func (s *Memory) SaveOutcome(_ context.Context, runID string, oc column.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcomes == nil {
		return ErrNotInit
	}
	s.outcomes[runID] = oc
	return nil
}

func (s *Memory) GetOutcome(_ context.Context, runID string) (column.Outcome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.outcomes == nil {
		return column.Outcome{}, false, ErrNotInit
	}
	oc, ok := s.outcomes[runID]
	return oc, ok, nil
}

// ListOutcomes returns all outcomes, ordered by run id
func (s *Memory) ListOutcomes(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.outcomes == nil {
		return nil, ErrNotInit
	}
	recs := make([]Record, 0, len(s.outcomes))
	for id, oc := range s.outcomes {
		recs = append(recs, Record{RunID: id, Outcome: oc})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].RunID < recs[j].RunID })
	return recs, nil
}

// SaveTrial appends a trial result, replacing any earlier result with the same index
func (s *Memory) SaveTrial(_ context.Context, runID string, res column.TrialResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trials == nil {
		return ErrNotInit
	}
	trs := s.trials[runID]
	for i := range trs {
		if trs[i].Index == res.Index {
			trs[i] = res
			return nil
		}
	}
	s.trials[runID] = append(trs, res)
	return nil
}

// GetTrials returns the trial results of a run, ordered by index
func (s *Memory) GetTrials(_ context.Context, runID string) ([]column.TrialResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.trials == nil {
		return nil, ErrNotInit
	}
	trs := append([]column.TrialResult(nil), s.trials[runID]...)
	sort.Slice(trs, func(i, j int) bool { return trs[i].Index < trs[j].Index })
	return trs, nil
}

func (s *Memory) Close() error {
	return nil
}
