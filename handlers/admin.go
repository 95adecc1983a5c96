// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mliang-bio/cell-counts-dashboard/auth"
	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/loader"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// Reload handles POST /api/v1/admin/reload
// Re-runs the CSV loader in replace mode. Requires the X-Admin-Key header;
// disabled entirely when no admin salt or source CSV is configured.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AdminKeySalt == "" || h.cfg.LoadCSV == "" {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Reload is not configured")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeLoader, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	result, err := loader.LoadFile(h.db, h.cfg.LoadCSV, true)
	if err != nil {
		slog.Error("dataset reload failed", "csv", h.cfg.LoadCSV, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Reload failed")
		return
	}

	slog.Info("dataset reloaded",
		"csv", h.cfg.LoadCSV,
		"samples", result.Samples,
		"cell_counts", result.CellCounts,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ReloadResponse{
		Reloaded:   true,
		Samples:    result.Samples,
		CellCounts: result.CellCounts,
	})
}
