// Package store provides RunStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/backlog-report/backlog"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[string]backlog.Run
}

func NewMemory() *Memory {
	return &Memory{
		runs: make(map[string]backlog.Run),
	}
}

// SaveRun stores a copy of the run.
func (m *Memory) SaveRun(_ context.Context, run backlog.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]backlog.MonthlyRecord, len(run.Records))
	copy(records, run.Records)
	run.Records = records
	if run.ExtraPerDay != nil {
		extra := *run.ExtraPerDay
		run.ExtraPerDay = &extra
	}
	m.runs[run.ID] = run
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*backlog.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, backlog.ErrRunNotFound
	}
	records := make([]backlog.MonthlyRecord, len(run.Records))
	copy(records, run.Records)
	run.Records = records
	return &run, nil
}

// ListRuns returns runs newest first, without records.
func (m *Memory) ListRuns(_ context.Context) ([]backlog.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]backlog.Run, 0, len(m.runs))
	for _, r := range m.runs {
		r.Records = nil
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func (m *Memory) DeleteRun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[id]; !ok {
		return backlog.ErrRunNotFound
	}
	delete(m.runs, id)
	return nil
}
