// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mliang-bio/cell-counts-dashboard/models"
)

// CohortFilter is the shared predicate tuple for cohort selection. Zero
// values mean "no constraint". The same filter over the same dataset always
// selects the same sample set.
type CohortFilter struct {
	Condition    string
	Treatment    string
	SampleType   string
	BaselineOnly bool
}

// cohortJoin is the three-way join every cohort query is built on.
const cohortJoin = `
	FROM samples s
	JOIN subjects subj ON subj.id = s.subject_id
	JOIN treatment_courses tc ON tc.id = s.treatment_course_id`

// whereClauses returns SQL predicates and their ordinal arguments.
// argOffset is the number of placeholders already taken by the caller.
func (f CohortFilter) whereClauses(argOffset int) ([]string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if f.Condition != "" {
		args = append(args, f.Condition)
		clauses = append(clauses, fmt.Sprintf("subj.condition = $%d", argOffset+len(args)))
	}
	if f.Treatment != "" {
		args = append(args, f.Treatment)
		clauses = append(clauses, fmt.Sprintf("tc.treatment = $%d", argOffset+len(args)))
	}
	if f.SampleType != "" {
		args = append(args, f.SampleType)
		clauses = append(clauses, fmt.Sprintf("s.sample_type = $%d", argOffset+len(args)))
	}
	if f.BaselineOnly {
		clauses = append(clauses, "s.time_from_treatment_start = 0")
	}

	return clauses, args
}

// parseCohortFilter reads the condition/treatment/sample_type query params.
// sample_type has a closed vocabulary and anything outside it is a 400;
// condition and treatment are free text and an unknown value simply selects
// an empty cohort.
func parseCohortFilter(r *http.Request) (CohortFilter, error) {
	f := CohortFilter{
		Condition:  r.URL.Query().Get("condition"),
		Treatment:  r.URL.Query().Get("treatment"),
		SampleType: r.URL.Query().Get("sample_type"),
	}

	if f.SampleType != "" && f.SampleType != models.SampleTypePBMC && f.SampleType != models.SampleTypeWB {
		return CohortFilter{}, fmt.Errorf("unknown sample_type %q (expected PBMC or WB)", f.SampleType)
	}

	return f, nil
}

// parseBoolParam parses an optional boolean query param ("true"/"false"/"1"/"0").
func parseBoolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q (expected a boolean)", name, raw)
	}
	return v, nil
}
