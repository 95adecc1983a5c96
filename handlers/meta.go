// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

type MetaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMetaHandler(db *sql.DB, cfg cliparse.Config) *MetaHandler {
	return &MetaHandler{db: db, cfg: cfg}
}

// GetFilters handles GET /api/v1/meta/filters
// Returns the distinct values present for every filterable column so the
// dashboard can populate its dropdowns from the loaded dataset.
func (h *MetaHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters := models.MetaFilters{
		Conditions:             []string{},
		Treatments:             []string{},
		SampleTypes:            []string{},
		TimeFromTreatmentStart: []int{},
		Responses:              []string{},
		Sexes:                  []string{},
	}

	stringColumns := []struct {
		dest  *[]string
		query string
	}{
		{&filters.Conditions, `SELECT DISTINCT condition FROM subjects ORDER BY condition`},
		{&filters.Treatments, `SELECT DISTINCT treatment FROM treatment_courses ORDER BY treatment`},
		{&filters.SampleTypes, `SELECT DISTINCT sample_type FROM samples ORDER BY sample_type`},
		{&filters.Responses, `SELECT DISTINCT response FROM treatment_courses WHERE response IS NOT NULL ORDER BY response`},
		{&filters.Sexes, `SELECT DISTINCT sex FROM subjects ORDER BY sex`},
	}
	for _, col := range stringColumns {
		values, err := h.distinctStrings(col.query)
		if err != nil {
			slog.Error("failed to query filter values", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		*col.dest = values
	}

	times, err := h.distinctInts(`SELECT DISTINCT time_from_treatment_start FROM samples ORDER BY time_from_treatment_start`)
	if err != nil {
		slog.Error("failed to query filter values", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	filters.TimeFromTreatmentStart = times

	middleware.JSONResponse(w, http.StatusOK, filters)
}

func (h *MetaHandler) distinctStrings(query string) ([]string, error) {
	rows, err := h.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func (h *MetaHandler) distinctInts(query string) ([]int, error) {
	rows, err := h.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
