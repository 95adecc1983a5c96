// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/handlers"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	frequencyHandler := handlers.NewFrequencyHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)
	summaryHandler := handlers.NewSummaryHandler(db, cfg)
	metaHandler := handlers.NewMetaHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	// Frequency listing
	mux.HandleFunc("GET /api/v1/frequency", middleware.WithLogging(frequencyHandler.GetFrequencies))

	// Responder vs non-responder analysis
	mux.HandleFunc("GET /api/v1/part3/frequencies", middleware.WithLogging(statsHandler.GetResponseFrequencies))
	mux.HandleFunc("GET /api/v1/part3/stats", middleware.WithLogging(statsHandler.GetStats))

	// Cohort summary
	mux.HandleFunc("GET /api/v1/part4/summary", middleware.WithLogging(summaryHandler.GetSummary))

	// Filter metadata
	mux.HandleFunc("GET /api/v1/meta/filters", middleware.WithLogging(metaHandler.GetFilters))

	// Dataset administration
	mux.HandleFunc("POST /api/v1/admin/reload", middleware.WithLogging(adminHandler.Reload))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.RootResponse{
			Message: "Cell Counts Dashboard API. See /api/v1/health",
		})
	})

	return mux
}
