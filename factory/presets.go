package factory

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScenario is returned by Preset for ids that are not built in.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// BUILT-IN SCENARIOS
// =============================================================================

// ReferenceJSON is the scenario the monthly report was first produced for.
func ReferenceJSON() string {
	return `{
		"id": "reference",
		"name": "Reference backlog (2025-08)",
		"description": "2,600 open items, 10 processed and 1.2 new per workday, 20 workdays a month",
		"start": "2025-08",
		"backlog_start": 2600,
		"process_per_day": 10,
		"new_per_day": "1.2",
		"workdays_per_month": 20,
		"extra_per_day": 2
	}`
}

// ImprovedThroughputJSON is the reference scenario processing two more items a day.
func ImprovedThroughputJSON() string {
	return `{
		"id": "improved-throughput",
		"name": "Improved throughput (+2/day)",
		"description": "Reference scenario with 12 items processed per workday",
		"start": "2025-08",
		"backlog_start": 2600,
		"process_per_day": 12,
		"new_per_day": "1.2",
		"workdays_per_month": 20
	}`
}

// HighInflowJSON is the reference scenario with three new items a day.
func HighInflowJSON() string {
	return `{
		"id": "high-inflow",
		"name": "High inflow (3/day)",
		"description": "Reference scenario with 3 new items arriving per workday",
		"start": "2025-08",
		"backlog_start": 2600,
		"process_per_day": 10,
		"new_per_day": 3,
		"workdays_per_month": 20,
		"extra_per_day": 2
	}`
}

var presets = map[string]func() string{
	"reference":           ReferenceJSON,
	"improved-throughput": ImprovedThroughputJSON,
	"high-inflow":         HighInflowJSON,
}

// PresetIDs lists the built-in scenario ids in a stable order.
func PresetIDs() []string {
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Preset parses a built-in scenario.
func (f *ScenarioFactory) Preset(id string) (*Scenario, error) {
	src, ok := presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return f.ParseScenario(src())
}

// Presets parses every built-in scenario, ordered by id.
func (f *ScenarioFactory) Presets() ([]*Scenario, error) {
	var out []*Scenario
	for _, id := range PresetIDs() {
		sc, err := f.Preset(id)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
