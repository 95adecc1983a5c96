// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Cell Counts Dashboard API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /api/v1/health

Analytics (public, read-only):

	GET /api/v1/frequency          - Per-sample population frequencies
	GET /api/v1/part3/frequencies  - Cohort frequencies split by response
	GET /api/v1/part3/stats        - Mann-Whitney / FDR comparison records
	GET /api/v1/part4/summary      - Cohort totals and grouped counts
	GET /api/v1/meta/filters       - Distinct filterable values

Administration (requires X-Admin-Key):

	POST /api/v1/admin/reload - Replace-reload the dataset from CSV

# Handler Initialization

The router creates handler instances with dependency injection:

	frequencyHandler := handlers.NewFrequencyHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)
	summaryHandler := handlers.NewSummaryHandler(db, cfg)
	metaHandler := handlers.NewMetaHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
