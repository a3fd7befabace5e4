/*
handlers.go - HTTP API handlers for backlog projections

PURPOSE:
  Exposes the projection engine, the renderers and the run store via REST
  API. Handles HTTP request/response, JSON serialization, and delegates to
  the backlog, report and deck packages.

ENDPOINTS:
  Projections:
    POST   /api/projections                  Project a scenario and save the run
    GET    /api/projections                  List saved runs (newest first)
    GET    /api/projections/{id}             Run with records and summary
    DELETE /api/projections/{id}             Delete a run
    GET    /api/projections/{id}/report.{fmt} csv, xlsx, png or pdf

  Scenarios:
    GET    /api/scenarios                    Built-in scenarios
    GET    /api/scenarios/{id}/projection    Project a built-in scenario, unsaved
    GET    /api/compare?scenario=&extra_per_day=  Throughput what-if

  Deck:
    GET    /api/deck                         Default briefing deck (PPTX)

REQUEST FLOW:
  1. Parse HTTP request
  2. Parse scenario (factory)
  3. Project (backlog engine validates)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid scenario, invalid configuration, horizon exceeded
  - 404: Unknown run or scenario
  - 422: Report requested for an empty projection
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Scenario endpoints
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/factory"
	"github.com/warp/backlog-report/logger"
	"github.com/warp/backlog-report/report"
)

// maxBodyBytes bounds scenario request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     backlog.RunStore
	Factory   *factory.ScenarioFactory
	Generator *report.Generator
	Logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewHandler creates a new handler with the given store. gen supplies file
// names, chart options and fonts for report downloads.
func NewHandler(store backlog.RunStore, gen *report.Generator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if gen == nil {
		gen = report.NewGenerator(log)
	}
	return &Handler{
		Store:     store,
		Factory:   factory.NewScenarioFactory(),
		Generator: gen,
		Logger:    log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// CreateProjection projects the posted scenario and saves the run.
func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	sc, err := h.Factory.ParseScenario(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", err)
		return
	}

	proj, whatIf, err := sc.Project()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	run := backlog.NewRun(h.newID(), sc.Name, proj, h.now())
	run.ExtraPerDay = sc.ExtraPerDay
	if err := h.Store.SaveRun(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save run", err)
		return
	}

	logger.FromContext(r.Context()).Info("projection saved",
		zap.String("run_id", run.ID),
		zap.String("name", run.Name),
		zap.Int("periods", proj.Len()),
	)

	dto := RunDTO{
		ID:            run.ID,
		CreatedAt:     formatTime(run.CreatedAt),
		ProjectionDTO: toProjectionDTO(runScenario(h.Factory, run), proj, whatIf),
	}
	writeJSON(w, http.StatusCreated, dto)
}

// ListProjections returns all saved runs without records.
func (h *Handler) ListProjections(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunListItemDTO, len(runs))
	for i, run := range runs {
		dtos[i] = RunListItemDTO{
			ID:        run.ID,
			Name:      run.Name,
			CreatedAt: formatTime(run.CreatedAt),
			Scenario:  runScenario(h.Factory, run),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProjection returns one run with records and summary.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	whatIf, err := run.WhatIf()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RunDTO{
		ID:            run.ID,
		CreatedAt:     formatTime(run.CreatedAt),
		ProjectionDTO: toProjectionDTO(runScenario(h.Factory, *run), run.Projection(), whatIf),
	})
}

// DeleteProjection removes a run.
func (h *Handler) DeleteProjection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteRun(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	logger.FromContext(r.Context()).Info("run deleted", zap.String("run_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// reportFormat is one downloadable rendering of a run.
type reportFormat struct {
	contentType string
	name        func(report.FileNames) string
	render      func(h *Handler, w io.Writer, run *backlog.Run) error
}

var reportFormats = map[string]reportFormat{
	"csv": {
		contentType: "text/csv; charset=utf-8",
		name:        func(n report.FileNames) string { return n.CSV },
		render: func(_ *Handler, w io.Writer, run *backlog.Run) error {
			return report.WriteCSV(w, run.Records)
		},
	},
	"xlsx": {
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		name:        func(n report.FileNames) string { return n.XLSX },
		render: func(_ *Handler, w io.Writer, run *backlog.Run) error {
			return report.WriteXLSX(w, run.Records)
		},
	},
	"png": {
		contentType: "image/png",
		name:        func(n report.FileNames) string { return n.Chart },
		render: func(h *Handler, w io.Writer, run *backlog.Run) error {
			return report.RenderChart(w, run.Records, h.Generator.Chart)
		},
	},
	"pdf": {
		contentType: "application/pdf",
		name:        func(n report.FileNames) string { return n.PDF },
		render: func(h *Handler, w io.Writer, run *backlog.Run) error {
			whatIf, err := run.WhatIf()
			if err != nil {
				return err
			}
			return report.WritePDF(w, run.Projection(), report.PDFOptions{
				FontCandidates: h.Generator.FontCandidates,
				Chart:          h.Generator.Chart,
				WhatIf:         whatIf,
				Logger:         h.Logger,
			})
		},
	},
}

// GetReport renders a saved run in the requested format.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	format, ok := reportFormats[chi.URLParam(r, "format")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown report format", nil)
		return
	}

	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Render fully before writing so failures still produce a JSON error.
	var buf bytes.Buffer
	if err := format.render(h, &buf, run); err != nil {
		writeDomainError(w, err)
		return
	}

	filename := report.ExpandName(format.name(h.Generator.Names), run.Params.Start())
	writeFile(w, format.contentType, filename, buf.Bytes())
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine, store and factory errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case backlog.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Run not found", err)
	case errors.Is(err, factory.ErrUnknownScenario):
		writeError(w, http.StatusNotFound, "Scenario not found", err)
	case errors.Is(err, backlog.ErrEmptyProjection):
		writeError(w, http.StatusUnprocessableEntity, "Projection has no periods", err)
	case backlog.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid projection parameters", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
