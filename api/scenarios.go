/*
scenarios.go - Built-in scenario, comparison and deck endpoints

PURPOSE:
  Serves the preset scenarios from the factory package: listing them,
  projecting one without saving a run, and comparing a scenario against a
  higher daily throughput. Also serves the default briefing deck.

AVAILABLE SCENARIOS:
  reference:           2,600 items from 2025-08, 10 processed / 1.2 new per day
  improved-throughput: Same backlog at 12 processed per day
  high-inflow:         Same backlog with 3 new items per day

USAGE VIA API:
  GET /api/scenarios/reference/projection
  GET /api/compare?scenario=high-inflow&extra_per_day=3

SEE ALSO:
  - factory/presets.go: Scenario JSON definitions
  - handlers.go: Error mapping
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/deck"
)

// ListScenarios returns the built-in scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	presets, err := h.Factory.Presets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, len(presets))
	for i, sc := range presets {
		dtos[i] = ScenarioDTO{
			ID:          sc.ID,
			Name:        sc.Name,
			Description: sc.Description,
			Scenario:    h.Factory.ToJSON(sc),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetScenarioProjection projects a built-in scenario without saving it.
func (h *Handler) GetScenarioProjection(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Factory.Preset(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	proj, whatIf, err := sc.Project()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(h.Factory.ToJSON(sc), proj, whatIf))
}

// Compare runs the throughput what-if for a built-in scenario.
// extra_per_day defaults to the scenario's own value.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("scenario")
	if id == "" {
		id = "reference"
	}
	sc, err := h.Factory.Preset(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var extra decimal.Decimal
	switch raw := r.URL.Query().Get("extra_per_day"); {
	case raw != "":
		extra, err = decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid extra_per_day", err)
			return
		}
	case sc.ExtraPerDay != nil:
		extra = *sc.ExtraPerDay
	default:
		writeError(w, http.StatusBadRequest, "extra_per_day is required for this scenario", nil)
		return
	}

	whatIf, err := backlog.CompareThroughput(sc.Params, extra)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWhatIfDTO(whatIf))
}

// GetDeck returns the built-in briefing deck as PPTX.
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := deck.Default()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load deck", err)
		return
	}
	data, err := deck.Build(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build deck", err)
		return
	}
	writeFile(w, "application/vnd.openxmlformats-officedocument.presentationml.presentation", "briefing.pptx", data)
}
