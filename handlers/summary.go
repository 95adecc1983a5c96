// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

type SummaryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSummaryHandler(db *sql.DB, cfg cliparse.Config) *SummaryHandler {
	return &SummaryHandler{db: db, cfg: cfg}
}

// GetSummary handles GET /api/v1/part4/summary
// Aggregates the filtered cohort: distinct sample/subject totals plus sample
// counts by project and distinct subject counts by response and by sex.
// n_samples exceeding n_subjects under a baseline-only filter is a real
// signal (repeated draws or multiple sample types), not an error.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCohortFilter(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	time0, err := parseBoolParam(r, "time0")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.BaselineOnly = time0

	clauses, args := filter.whereClauses(0)

	resp := models.SummaryResponse{
		Filter: models.SummaryFilter{
			Condition:  optional(filter.Condition),
			Treatment:  optional(filter.Treatment),
			SampleType: optional(filter.SampleType),
			Time0:      filter.BaselineOnly,
		},
		SamplesByProject:   []models.KeyCount{},
		SubjectsByResponse: []models.KeyCount{},
		SubjectsBySex:      []models.KeyCount{},
	}

	err = h.db.QueryRow(`
		SELECT COUNT(DISTINCT s.id), COUNT(DISTINCT s.subject_id)`+
		cohortJoin+whereSQL(clauses), args...,
	).Scan(&resp.Totals.NSamples, &resp.Totals.NSubjects)
	if err != nil {
		slog.Error("failed to query cohort totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp.SamplesByProject, err = h.groupedCounts(`
		SELECT proj.name, COUNT(DISTINCT s.id)`+
		cohortJoin+`
		JOIN projects proj ON proj.id = subj.project_id`+
		whereSQL(clauses)+`
		GROUP BY proj.name
		ORDER BY proj.name
	`, args)
	if err != nil {
		slog.Error("failed to query samples by project", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// yes before no, matching the dashboard's responder-first ordering.
	responseWhere := "tc.response IN ('yes', 'no')"
	if len(clauses) > 0 {
		responseWhere = strings.Join(clauses, " AND ") + " AND " + responseWhere
	}
	resp.SubjectsByResponse, err = h.groupedCounts(`
		SELECT tc.response, COUNT(DISTINCT s.subject_id)`+
		cohortJoin+`
		WHERE `+responseWhere+`
		GROUP BY tc.response
		ORDER BY tc.response DESC
	`, args)
	if err != nil {
		slog.Error("failed to query subjects by response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp.SubjectsBySex, err = h.groupedCounts(`
		SELECT subj.sex, COUNT(DISTINCT s.subject_id)`+
		cohortJoin+whereSQL(clauses)+`
		GROUP BY subj.sex
		ORDER BY subj.sex
	`, args)
	if err != nil {
		slog.Error("failed to query subjects by sex", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *SummaryHandler) groupedCounts(query string, args []interface{}) ([]models.KeyCount, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.KeyCount{}
	for rows.Next() {
		var kc models.KeyCount
		if err := rows.Scan(&kc.Key, &kc.N); err != nil {
			return nil, err
		}
		result = append(result, kc)
	}

	return result, rows.Err()
}

func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(clauses, " AND ")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
