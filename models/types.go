// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Sample type constants
const (
	SampleTypePBMC = "PBMC"
	SampleTypeWB   = "WB"
)

// Treatment course response constants
const (
	ResponseYes = "yes"
	ResponseNo  = "no"
)

// Response types

type HealthResponse struct {
	Status string `json:"status"`
}

type RootResponse struct {
	Message string `json:"message"`
}

// FrequencyRow is one (sample, population) observation with its relative
// frequency. Percentage is nil when the sample's total count is zero.
type FrequencyRow struct {
	Sample     string   `json:"sample"`
	TotalCount int64    `json:"total_count"`
	Population string   `json:"population"`
	Count      int64    `json:"count"`
	Percentage *float64 `json:"percentage"`
}

// ResponseFrequencyRow is a cohort observation split by treatment response,
// used for the responder vs non-responder boxplots.
type ResponseFrequencyRow struct {
	Sample     string   `json:"sample"`
	Response   string   `json:"response"`
	Population string   `json:"population"`
	Percentage *float64 `json:"percentage"`
}

// PopulationStats is the per-population comparison of responder and
// non-responder frequency distributions. All starred fields are nil when a
// group has fewer than two observations.
type PopulationStats struct {
	Population        string   `json:"population"`
	NYes              int      `json:"n_yes"`
	NNo               int      `json:"n_no"`
	MedianYes         *float64 `json:"median_yes"`
	MedianNo          *float64 `json:"median_no"`
	UStatistic        *float64 `json:"u_statistic"`
	PValue            *float64 `json:"p_value"`
	SignificantP005   bool     `json:"significant_p_lt_0_05"`
	QValue            *float64 `json:"q_value"`
	SignificantFDR005 bool     `json:"significant_fdr_0_05"`
}

// KeyCount is a grouped count row (by project, response, or sex).
type KeyCount struct {
	Key string `json:"key"`
	N   int    `json:"n"`
}

// SummaryFilter echoes the cohort predicates a summary was computed for.
type SummaryFilter struct {
	Condition  *string `json:"condition"`
	Treatment  *string `json:"treatment"`
	SampleType *string `json:"sample_type"`
	Time0      bool    `json:"time0"`
}

type SummaryTotals struct {
	NSamples  int `json:"n_samples"`
	NSubjects int `json:"n_subjects"`
}

type SummaryResponse struct {
	Filter             SummaryFilter `json:"filter"`
	Totals             SummaryTotals `json:"totals"`
	SamplesByProject   []KeyCount    `json:"samples_by_project"`
	SubjectsByResponse []KeyCount    `json:"subjects_by_response"`
	SubjectsBySex      []KeyCount    `json:"subjects_by_sex"`
}

// MetaFilters lists the distinct values available for each filterable column.
type MetaFilters struct {
	Conditions             []string `json:"conditions"`
	Treatments             []string `json:"treatments"`
	SampleTypes            []string `json:"sample_types"`
	TimeFromTreatmentStart []int    `json:"time_from_treatment_start"`
	Responses              []string `json:"responses"`
	Sexes                  []string `json:"sexes"`
}

type ReloadResponse struct {
	Reloaded   bool `json:"reloaded"`
	Samples    int  `json:"samples"`
	CellCounts int  `json:"cell_counts"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
