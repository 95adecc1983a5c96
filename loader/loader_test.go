// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mliang-bio/cell-counts-dashboard/testutil"
)

func row(sample, population string, count int64) *Row {
	return &Row{
		Project:    "prj1",
		Subject:    "sbj1",
		Condition:  "melanoma",
		Age:        "70",
		Sex:        "F",
		Treatment:  "miraclib",
		Response:   "yes",
		Sample:     sample,
		SampleType: "PBMC",
		Population: population,
		Count:      count,
	}
}

func TestLoad(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	rows := []*Row{
		row("s1", "b_cell", 250),
		row("s1", "cd4_t_cell", 750),
		row("s2", "b_cell", 300),
	}
	rows[2].Subject = "sbj2"
	rows[2].Sex = "M"
	rows[2].Response = "no"

	result, err := Load(db, rows, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.Projects != 1 || result.Subjects != 2 || result.TreatmentCourses != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if result.Samples != 2 || result.Populations != 2 || result.CellCounts != 3 {
		t.Errorf("Unexpected result: %+v", result)
	}

	// Sequential IDs follow first appearance.
	var firstSample string
	if err := db.QueryRow(`SELECT sample_code FROM samples WHERE id = 1`).Scan(&firstSample); err != nil {
		t.Fatalf("Failed to query samples: %v", err)
	}
	if firstSample != "s1" {
		t.Errorf("Expected sample id 1 to be s1, got %s", firstSample)
	}

	var age int
	if err := db.QueryRow(`SELECT age FROM subjects WHERE subject_code = 'sbj1'`).Scan(&age); err != nil {
		t.Fatalf("Failed to query subject age: %v", err)
	}
	if age != 70 {
		t.Errorf("Expected age 70, got %d", age)
	}
}

func TestLoadNullableFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	r := row("s1", "b_cell", 100)
	r.Age = ""
	r.Response = ""

	if _, err := Load(db, []*Row{r}, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var age, response *string
	err := db.QueryRow(`
		SELECT subj.age, tc.response
		FROM subjects subj
		JOIN treatment_courses tc ON tc.subject_id = subj.id
	`).Scan(&age, &response)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if age != nil {
		t.Errorf("Expected NULL age, got %v", *age)
	}
	if response != nil {
		t.Errorf("Expected NULL response, got %v", *response)
	}
}

func TestLoadReplaceClearsExistingData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	if _, err := Load(db, []*Row{row("s1", "b_cell", 100)}, false); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}

	r := row("s9", "nk_cell", 50)
	r.Project = "prj2"
	r.Subject = "sbj9"
	result, err := Load(db, []*Row{r}, true)
	if err != nil {
		t.Fatalf("Replace load failed: %v", err)
	}
	if result.Samples != 1 || result.CellCounts != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}

	var projects, samples int
	if err := db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&projects); err != nil {
		t.Fatalf("Failed to count projects: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&samples); err != nil {
		t.Fatalf("Failed to count samples: %v", err)
	}
	if projects != 1 || samples != 1 {
		t.Errorf("Expected the old dataset to be gone, got %d projects and %d samples", projects, samples)
	}
}

func TestLoadAppendWithoutReplace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	if _, err := Load(db, []*Row{row("s1", "b_cell", 100)}, false); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}

	// A second non-replace load with colliding IDs must fail and leave the
	// first dataset intact.
	if _, err := Load(db, []*Row{row("s1", "b_cell", 100)}, false); err == nil {
		t.Fatal("Expected a second load without replace to fail on existing rows")
	}

	var samples int
	if err := db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&samples); err != nil {
		t.Fatalf("Failed to count samples: %v", err)
	}
	if samples != 1 {
		t.Errorf("Expected 1 sample after failed load, got %d", samples)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	badSex := row("s1", "b_cell", 100)
	badSex.Sex = "X"

	badType := row("s1", "b_cell", 100)
	badType.SampleType = "plasma"

	badResponse := row("s1", "b_cell", 100)
	badResponse.Response = "maybe"

	badAge := row("s1", "b_cell", 100)
	badAge.Age = "seventy"

	negCount := row("s1", "b_cell", -1)

	missingSubject := row("s1", "b_cell", 100)
	missingSubject.Subject = ""

	testCases := []struct {
		name string
		rows []*Row
		want string
	}{
		{"invalid sex", []*Row{badSex}, "sex"},
		{"invalid sample_type", []*Row{badType}, "sample_type"},
		{"invalid response", []*Row{badResponse}, "response"},
		{"non-numeric age", []*Row{badAge}, "age"},
		{"negative count", []*Row{negCount}, "count"},
		{"missing subject", []*Row{missingSubject}, "subject"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(db, tc.rows, false)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), "csv line 2") {
				t.Errorf("Expected the error to carry the line number, got %q", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected the error to mention %q, got %q", tc.want, err)
			}
		})
	}
}

func TestLoadContradictorySubjectMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	contradiction := row("s2", "b_cell", 100)
	contradiction.Sex = "M"

	_, err := Load(db, []*Row{row("s1", "b_cell", 100), contradiction}, false)
	if err == nil {
		t.Fatal("Expected a contradiction error")
	}
	if !strings.Contains(err.Error(), "csv line 3") || !strings.Contains(err.Error(), "sbj1") {
		t.Errorf("Expected line 3 and the subject code in the error, got %q", err)
	}
}

func TestLoadContradictorySampleMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	contradiction := row("s1", "cd4_t_cell", 100)
	contradiction.SampleType = "WB"

	_, err := Load(db, []*Row{row("s1", "b_cell", 100), contradiction}, false)
	if err == nil {
		t.Fatal("Expected a contradiction error")
	}
	if !strings.Contains(err.Error(), "sample s1") {
		t.Errorf("Expected the sample code in the error, got %q", err)
	}
}

func TestLoadDuplicateObservation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	_, err := Load(db, []*Row{row("s1", "b_cell", 100), row("s1", "b_cell", 200)}, false)
	if err == nil {
		t.Fatal("Expected a duplicate observation error")
	}
	if !strings.Contains(err.Error(), "duplicate") || !strings.Contains(err.Error(), "csv line 3") {
		t.Errorf("Expected a duplicate error with line 3, got %q", err)
	}
}

func TestLoadFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	csv := `project,subject,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,population,count
prj1,sbj1,melanoma,70,F,miraclib,yes,s1,PBMC,0,b_cell,250
prj1,sbj1,melanoma,70,F,miraclib,yes,s1,PBMC,0,cd4_t_cell,750
`
	path := filepath.Join(t.TempDir(), "cell-count.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}

	result, err := LoadFile(db, path, false)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if result.Samples != 1 || result.CellCounts != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "empty.csv")
	header := "project,subject,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,population,count\n"
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}

	if _, err := LoadFile(db, path, false); !errors.Is(err, ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	if _, err := LoadFile(db, filepath.Join(t.TempDir(), "nope.csv"), false); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
