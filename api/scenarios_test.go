/*
scenarios_test.go - HTTP tests for scenario, comparison and deck endpoints

PURPOSE:
	Each built-in scenario must project through the API, the what-if must
	report the months saved, and the deck endpoint must serve a PPTX.
*/
package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenarios(t *testing.T) {
	s := setupTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, 3)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"high-inflow", "improved-throughput", "reference"}, ids)
	assert.Equal(t, "2025-08", list[2].Scenario.Start)
}

func TestGetScenarioProjection(t *testing.T) {
	// GIVEN: Each built-in scenario
	// WHEN: Projecting it through the API
	// THEN: The expected zero month comes back and no run is saved

	tests := []struct {
		id        string
		zeroMonth string
	}{
		{"reference", "2026-10"},
		{"improved-throughput", "2026-08"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := setupTestServer(t)
			rec := s.do(t, http.MethodGet, "/api/scenarios/"+tt.id+"/projection", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			proj := decode[ProjectionDTO](t, rec)
			require.NotNil(t, proj.Summary)
			assert.Equal(t, tt.zeroMonth, proj.Summary.ZeroMonth)

			runs := decode[[]RunListItemDTO](t, s.do(t, http.MethodGet, "/api/projections", ""))
			assert.Empty(t, runs)
		})
	}
}

func TestGetScenarioProjection_Unknown(t *testing.T) {
	s := setupTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/scenarios/nope/projection", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompare(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/compare", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	w := decode[WhatIfDTO](t, rec)
	assert.Equal(t, "2", w.ExtraPerDay.String())
	assert.Equal(t, "2026-10", w.Baseline.ZeroMonth)
	assert.Equal(t, "2026-08", w.Improved.ZeroMonth)
	assert.Equal(t, 2, w.PeriodsSaved)

	rec = s.do(t, http.MethodGet, "/api/compare?scenario=reference&extra_per_day=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/compare?extra_per_day=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// improved-throughput carries no extra_per_day of its own
	rec = s.do(t, http.MethodGet, "/api/compare?scenario=improved-throughput", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDeck(t *testing.T) {
	s := setupTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/deck", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "briefing.pptx")
}
