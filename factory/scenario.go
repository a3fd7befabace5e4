/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario definitions into backlog.Params. Scenarios are what
  operators edit (files, API bodies); Params are what the engine consumes.

JSON SCHEMA:
  {
    "id": "reference",
    "name": "Reference backlog (2025-08)",
    "start": "2025-08",
    "backlog_start": 2600,
    "process_per_day": 10,
    "new_per_day": 1.2,
    "workdays_per_month": 20,
    "max_periods": 0
  }

  Numbers may also be given as strings ("1.2") to avoid float rounding on
  the client side.

DEFAULTS:
  - workdays_per_month: 20
  - name: the id, or "custom"

VALIDATION:
  The factory only checks shape: the start label and the presence of
  backlog_start, process_per_day and new_per_day. An explicit
  workdays_per_month is passed through as given, so 0 is rejected by the
  engine rather than replaced by the default. Business
  rules (process > new, positive rates) stay in backlog.Params.Validate so
  every entry point rejects the same inputs with the same error.

USAGE:
  f := NewScenarioFactory()
  sc, err := f.ParseScenario(jsonString)
  proj, err := backlog.Project(sc.Params)

SEE ALSO:
  - presets.go: Built-in scenarios
  - backlog/params.go: Validate
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/backlog-report/backlog"
)

// DefaultWorkdaysPerMonth applies when a scenario omits workdays_per_month.
const DefaultWorkdaysPerMonth = 20

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a projection scenario.
type ScenarioJSON struct {
	ID               string           `json:"id,omitempty"`
	Name             string           `json:"name,omitempty"`
	Description      string           `json:"description,omitempty"`
	Start            string           `json:"start"`
	BacklogStart     *decimal.Decimal `json:"backlog_start"`
	ProcessPerDay    *decimal.Decimal `json:"process_per_day"`
	NewPerDay        *decimal.Decimal `json:"new_per_day"`
	WorkdaysPerMonth *int             `json:"workdays_per_month,omitempty"`
	MaxPeriods       int              `json:"max_periods,omitempty"`
	ExtraPerDay      *decimal.Decimal `json:"extra_per_day,omitempty"` // what-if throughput gain
}

// Scenario is a parsed scenario ready for the engine.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Params      backlog.Params

	// ExtraPerDay, when set, asks for a throughput comparison.
	ExtraPerDay *decimal.Decimal
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts JSON scenarios to Go structs.
type ScenarioFactory struct{}

// NewScenarioFactory creates a new scenario factory.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{}
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (*Scenario, error) {
	var sj ScenarioJSON
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts ScenarioJSON to a Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	if sj.Start == "" {
		return nil, fmt.Errorf("scenario %q: start is required", sj.ID)
	}
	start, err := backlog.ParseYearMonth(sj.Start)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sj.ID, err)
	}

	for _, req := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"backlog_start", sj.BacklogStart},
		{"process_per_day", sj.ProcessPerDay},
		{"new_per_day", sj.NewPerDay},
	} {
		if req.value == nil {
			return nil, fmt.Errorf("scenario %q: %s is required", sj.ID, req.field)
		}
	}

	workdays := DefaultWorkdaysPerMonth
	if sj.WorkdaysPerMonth != nil {
		workdays = *sj.WorkdaysPerMonth
	}

	name := sj.Name
	if name == "" {
		name = sj.ID
	}
	if name == "" {
		name = "custom"
	}

	return &Scenario{
		ID:          sj.ID,
		Name:        name,
		Description: sj.Description,
		Params: backlog.Params{
			StartYear:        start.Year,
			StartMonth:       start.Month,
			BacklogStart:     *sj.BacklogStart,
			ProcessPerDay:    *sj.ProcessPerDay,
			NewPerDay:        *sj.NewPerDay,
			WorkdaysPerMonth: workdays,
			MaxPeriods:       sj.MaxPeriods,
		},
		ExtraPerDay: sj.ExtraPerDay,
	}, nil
}

// ToJSON converts a Scenario back to its JSON representation.
func (f *ScenarioFactory) ToJSON(sc *Scenario) ScenarioJSON {
	p := sc.Params
	return ScenarioJSON{
		ID:               sc.ID,
		Name:             sc.Name,
		Description:      sc.Description,
		Start:            sc.Params.Start().String(),
		BacklogStart:     &p.BacklogStart,
		ProcessPerDay:    &p.ProcessPerDay,
		NewPerDay:        &p.NewPerDay,
		WorkdaysPerMonth: &p.WorkdaysPerMonth,
		MaxPeriods:       sc.Params.MaxPeriods,
		ExtraPerDay:      sc.ExtraPerDay,
	}
}

// Project runs the engine and, when ExtraPerDay is set and the backlog is
// not already empty, the throughput comparison.
func (sc *Scenario) Project() (*backlog.Projection, *backlog.WhatIf, error) {
	proj, err := backlog.Project(sc.Params)
	if err != nil {
		return nil, nil, err
	}
	if sc.ExtraPerDay == nil || proj.IsEmpty() {
		return proj, nil, nil
	}
	whatIf, err := backlog.CompareThroughput(sc.Params, *sc.ExtraPerDay)
	if err != nil {
		return nil, nil, err
	}
	return proj, whatIf, nil
}
