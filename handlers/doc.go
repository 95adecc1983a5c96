// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Cell Counts
Dashboard API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - FrequencyHandler: per-sample population frequency listing
  - StatsHandler: responder vs non-responder frequencies and statistics
  - SummaryHandler: cohort totals and grouped counts
  - MetaHandler: distinct filter values
  - AdminHandler: dataset replace-reload

Handlers are created via constructor functions that accept *sql.DB and Config:

	statsHandler := handlers.NewStatsHandler(db, cfg)

Every endpoint is a stateless read over the loaded dataset; the one writer
is AdminHandler.Reload, which delegates to the loader's single-transaction
replace.

# Cohort Filtering

cohort.go holds the shared CohortFilter used by the part3 and part4
endpoints: optional condition/treatment/sample_type predicates (plus a
baseline-only flag for part4) composed into deterministic WHERE clauses over
the samples/subjects/treatment_courses join. sample_type is validated
against {PBMC, WB}; a value outside that vocabulary is a 400.

# Rank Statistics

The statistical primitives live in ranktest.go:

	u, p, ok := mannWhitneyU(yesGroup, noGroup)
	qvals := benjaminiHochberg(pvals)

mannWhitneyU is the two-sided test with mid-rank tie averaging,
tie-corrected variance, and a continuity-corrected normal approximation.
benjaminiHochberg is the standard step-up FDR adjustment (q = p*m/rank,
running minimum from the largest rank, capped at 1). A group with fewer
than two observations produces no statistic; the endpoint reports JSON
nulls for that population instead of failing the request.
*/
package handlers
