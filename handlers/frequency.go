// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

const (
	defaultFrequencyLimit = 200
	maxFrequencyLimit     = 10000
)

type FrequencyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewFrequencyHandler(db *sql.DB, cfg cliparse.Config) *FrequencyHandler {
	return &FrequencyHandler{db: db, cfg: cfg}
}

// GetFrequencies handles GET /api/v1/frequency
// Returns the relative frequency of every (sample, population) observation,
// ordered by sample then population, up to the requested limit.
func (h *FrequencyHandler) GetFrequencies(w http.ResponseWriter, r *http.Request) {
	limit := defaultFrequencyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	if limit <= 0 {
		middleware.JSONResponse(w, http.StatusOK, []models.FrequencyRow{})
		return
	}
	if limit > maxFrequencyLimit {
		limit = maxFrequencyLimit
	}

	rows, err := h.db.Query(`
		WITH totals AS (
			SELECT sample_id, SUM(count) AS total_count
			FROM cell_counts
			GROUP BY sample_id
		)
		SELECT s.sample_code, t.total_count, p.name, cc.count,
		       CASE WHEN t.total_count > 0 THEN 100.0 * cc.count / t.total_count END AS percentage
		FROM cell_counts cc
		JOIN samples s ON s.id = cc.sample_id
		JOIN totals t ON t.sample_id = cc.sample_id
		JOIN populations p ON p.id = cc.population_id
		ORDER BY s.sample_code, p.name
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to query frequencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	result := []models.FrequencyRow{}
	for rows.Next() {
		var row models.FrequencyRow
		var percentage sql.NullFloat64
		if err := rows.Scan(&row.Sample, &row.TotalCount, &row.Population, &row.Count, &percentage); err != nil {
			slog.Error("failed to scan frequency row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if percentage.Valid {
			row.Percentage = &percentage.Float64
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read frequency rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}
