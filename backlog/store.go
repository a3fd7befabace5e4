/*
store.go - Persistence interface for projection runs

PURPOSE:
  A Run is a saved projection: the params it was computed from, the ledger
  and the summary. Runs are written once and read many times (API downloads,
  CLI listings). They are never updated in place; re-running a scenario
  creates a new run.

IMPLEMENTATIONS:
  - backlog/store/memory.go: In-memory for testing and the default server
  - store/sqlite/sqlite.go: SQLite, survives restarts

SEE ALSO:
  - api/handlers.go: Saves a run per POST /api/projections
  - cli/report.go: --save flag
*/
package backlog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Run is a persisted projection.
type Run struct {
	ID        string
	Name      string
	Params    Params
	Records   []MonthlyRecord
	CreatedAt time.Time

	// ExtraPerDay is the what-if throughput gain the run was requested with.
	ExtraPerDay *decimal.Decimal
}

// NewRun wraps a projection for storage.
func NewRun(id, name string, proj *Projection, at time.Time) Run {
	records := make([]MonthlyRecord, len(proj.Records))
	copy(records, proj.Records)
	return Run{
		ID:        id,
		Name:      name,
		Params:    proj.Params,
		Records:   records,
		CreatedAt: at,
	}
}

// Projection rebuilds the projection view of a stored run.
func (r Run) Projection() *Projection {
	return &Projection{
		Params:  r.Params,
		Rates:   r.Params.Rates(),
		Records: r.Records,
	}
}

// WhatIf recomputes the throughput comparison the run was requested with.
// It returns nil when the run has no ExtraPerDay or no records.
func (r Run) WhatIf() (*WhatIf, error) {
	if r.ExtraPerDay == nil || len(r.Records) == 0 {
		return nil, nil
	}
	return CompareThroughput(r.Params, *r.ExtraPerDay)
}

// RunStore persists runs.
type RunStore interface {
	// SaveRun stores a run. An existing ID is replaced.
	SaveRun(ctx context.Context, run Run) error

	// GetRun returns ErrRunNotFound when the ID is unknown.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first. Records are not loaded.
	ListRuns(ctx context.Context) ([]Run, error)

	// DeleteRun returns ErrRunNotFound when the ID is unknown.
	DeleteRun(ctx context.Context, id string) error
}
