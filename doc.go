// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Cell Counts Dashboard API server.

The server is a read-only analytics backend over clinical immune cell-count
data: a CSV loader populates a small relational schema once, and a handful of
GET endpoints compute per-sample population frequencies, a responder vs
non-responder Mann-Whitney comparison with Benjamini-Hochberg FDR correction,
and cohort summaries for the dashboard frontend.

# Starting the Server

The server runs against a local SQLite file by default:

	go run main.go -load data/cell-count.csv

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

# Configuration

Optional settings (flags or environment):

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_PATH (-d): SQLite file (default: data/app.db)
  - DATABASE_URL (-u): PostgreSQL connection string
  - LOAD_CSV (-load): CSV loaded in replace mode at startup
  - ADMIN_KEY_SALT (--admin-salt): Enables POST /api/v1/admin/reload

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (frequency, stats, summary, meta, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Response types
  - auth: Admin key generation and validation
  - db: Schema creation
  - loader: CSV to relational-table ETL
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
