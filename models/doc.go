// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines response and domain types for the API.

# Response Types

Types for JSON responses, one per endpoint:

  - HealthResponse: status
  - FrequencyRow: sample, total_count, population, count, percentage
  - ResponseFrequencyRow: sample, response, population, percentage
  - PopulationStats: per-population Mann-Whitney / FDR comparison record
  - SummaryResponse: filter echo, totals, and grouped counts
  - MetaFilters: distinct values per filterable column
  - ReloadResponse: loader replace-run result
  - ErrorResponse: error, message

# Null Sentinels

Undefined numeric results serialize as JSON null via *float64 fields:

  - FrequencyRow.Percentage when a sample's total count is zero
  - PopulationStats u/p/q values when a response group has fewer than
    two observations

The significance flags are plain bools and are false whenever the
corresponding value is null.

# Constants

Sample types:

	SampleTypePBMC = "PBMC"
	SampleTypeWB   = "WB"

Treatment course responses:

	ResponseYes = "yes"
	ResponseNo  = "no"
*/
package models
