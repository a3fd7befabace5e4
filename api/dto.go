/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - Request bodies reuse factory.ScenarioJSON

NUMBERS:
  Decimals are serialized as JSON strings ("2424", "19.2") so clients never
  see binary float rounding.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/factory"
)

// =============================================================================
// PROJECTION TYPES
// =============================================================================

// RecordDTO is one ledger row.
type RecordDTO struct {
	Month          string          `json:"month"`
	OpeningBacklog decimal.Decimal `json:"opening_backlog"`
	NewItems       decimal.Decimal `json:"new_items"`
	ProcessedItems decimal.Decimal `json:"processed_items"`
	NetReduction   decimal.Decimal `json:"net_reduction"`
	ClosingBacklog decimal.Decimal `json:"closing_backlog"`
	Workdays       int             `json:"workdays"`
	Terminal       bool            `json:"terminal,omitempty"`
}

// SummaryDTO carries the derived scalars of a projection.
type SummaryDTO struct {
	Start               string          `json:"start"`
	ZeroMonth           string          `json:"zero_month"`
	FinalWorkdays       int             `json:"final_workdays"`
	Periods             int             `json:"periods"`
	MonthlyProcess      decimal.Decimal `json:"monthly_process"`
	MonthlyNew          decimal.Decimal `json:"monthly_new"`
	MonthlyNetReduction decimal.Decimal `json:"monthly_net_reduction"`
	DailyNetReduction   decimal.Decimal `json:"daily_net_reduction"`
}

// WhatIfDTO compares a baseline with a higher daily throughput.
type WhatIfDTO struct {
	ExtraPerDay  decimal.Decimal `json:"extra_per_day"`
	Baseline     SummaryDTO      `json:"baseline"`
	Improved     SummaryDTO      `json:"improved"`
	PeriodsSaved int             `json:"periods_saved"`
}

// ProjectionDTO is an unsaved projection.
type ProjectionDTO struct {
	Scenario factory.ScenarioJSON `json:"scenario"`
	Summary  *SummaryDTO          `json:"summary"` // null for an empty backlog
	Records  []RecordDTO          `json:"records"`
	WhatIf   *WhatIfDTO           `json:"what_if,omitempty"`
}

// RunDTO is a saved projection.
type RunDTO struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	ProjectionDTO
}

// RunListItemDTO is a run without its records.
type RunListItemDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	CreatedAt string               `json:"created_at"`
	Scenario  factory.ScenarioJSON `json:"scenario"`
}

// ScenarioDTO describes a built-in scenario.
type ScenarioDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Scenario    factory.ScenarioJSON `json:"scenario"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRecordDTOs(records []backlog.MonthlyRecord) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = RecordDTO{
			Month:          r.Period.String(),
			OpeningBacklog: r.OpeningBacklog,
			NewItems:       r.NewItems,
			ProcessedItems: r.ProcessedItems,
			NetReduction:   r.NetReduction,
			ClosingBacklog: r.ClosingBacklog,
			Workdays:       r.Workdays,
			Terminal:       r.Terminal,
		}
	}
	return out
}

func toSummaryDTO(s backlog.Summary) SummaryDTO {
	return SummaryDTO{
		Start:               s.Start.String(),
		ZeroMonth:           s.ZeroMonth.String(),
		FinalWorkdays:       s.FinalWorkdays,
		Periods:             s.Periods,
		MonthlyProcess:      s.Rates.MonthlyProcess,
		MonthlyNew:          s.Rates.MonthlyNew,
		MonthlyNetReduction: s.Rates.MonthlyNetReduction,
		DailyNetReduction:   s.Rates.DailyNetReduction,
	}
}

func toWhatIfDTO(w *backlog.WhatIf) *WhatIfDTO {
	if w == nil {
		return nil
	}
	return &WhatIfDTO{
		ExtraPerDay:  w.ExtraPerDay,
		Baseline:     toSummaryDTO(w.Baseline),
		Improved:     toSummaryDTO(w.Improved),
		PeriodsSaved: w.PeriodsSaved,
	}
}

func toProjectionDTO(sj factory.ScenarioJSON, proj *backlog.Projection, whatIf *backlog.WhatIf) ProjectionDTO {
	dto := ProjectionDTO{
		Scenario: sj,
		Records:  toRecordDTOs(proj.Records),
		WhatIf:   toWhatIfDTO(whatIf),
	}
	if s, ok := proj.Summary(); ok {
		sd := toSummaryDTO(s)
		dto.Summary = &sd
	}
	return dto
}

// runScenario rebuilds the scenario JSON a run was computed from.
func runScenario(f *factory.ScenarioFactory, run backlog.Run) factory.ScenarioJSON {
	return f.ToJSON(&factory.Scenario{ID: run.ID, Name: run.Name, Params: run.Params, ExtraPerDay: run.ExtraPerDay})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
