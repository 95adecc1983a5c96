// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package loader

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/mliang-bio/cell-counts-dashboard/models"
)

var ErrNoRows = errors.New("csv contains no data rows")

// Row is one CSV record: a single (sample, population) observation plus the
// subject, treatment course, and sample metadata it hangs off.
type Row struct {
	Project                string `csv:"project"`
	Subject                string `csv:"subject"`
	Condition              string `csv:"condition"`
	Age                    string `csv:"age"`
	Sex                    string `csv:"sex"`
	Treatment              string `csv:"treatment"`
	Response               string `csv:"response"`
	Sample                 string `csv:"sample"`
	SampleType             string `csv:"sample_type"`
	TimeFromTreatmentStart int    `csv:"time_from_treatment_start"`
	Population             string `csv:"population"`
	Count                  int64  `csv:"count"`
}

// Result reports how many rows each table received.
type Result struct {
	Projects         int
	Subjects         int
	TreatmentCourses int
	Samples          int
	Populations      int
	CellCounts       int
}

type subjectRec struct {
	id        int
	projectID int
	code      string
	condition string
	age       *int
	sex       string
}

type courseRec struct {
	id        int
	subjectID int
	treatment string
	response  *string
}

type sampleRec struct {
	id       int
	code     string
	subject  int
	course   int
	kind     string
	timeFrom int
}

// LoadFile reads a CSV file and loads it into the five tables. With replace
// set, all existing rows are cleared first; clear and insert share one
// transaction, so readers see either the old dataset or the new one.
func LoadFile(db *sql.DB, path string, replace bool) (Result, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv: %w", err)
	}

	rows := []*Row{}
	if err := gocsv.UnmarshalBytes(fileBytes, &rows); err != nil {
		return Result{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, ErrNoRows
	}

	return Load(db, rows, replace)
}

// Load validates the parsed rows, assigns IDs, and inserts everything.
func Load(db *sql.DB, rows []*Row, replace bool) (Result, error) {
	var (
		projects    []string
		subjects    []*subjectRec
		courses     []*courseRec
		samples     []*sampleRec
		populations []string

		projectIDs    = map[string]int{}
		subjectIDs    = map[string]*subjectRec{}
		courseIDs     = map[string]*courseRec{}
		sampleIDs     = map[string]*sampleRec{}
		populationIDs = map[string]int{}
	)

	type cellCount struct {
		sampleID     int
		populationID int
		count        int64
	}
	var counts []cellCount
	seen := map[[2]int]bool{}

	for i, row := range rows {
		// Header is line 1, so data row i is line i+2.
		line := i + 2

		if err := validate(row); err != nil {
			return Result{}, fmt.Errorf("csv line %d: %w", line, err)
		}

		projectID, ok := projectIDs[row.Project]
		if !ok {
			projectID = len(projects) + 1
			projectIDs[row.Project] = projectID
			projects = append(projects, row.Project)
		}

		subjKey := row.Project + "\x00" + row.Subject
		subj, ok := subjectIDs[subjKey]
		if !ok {
			subj = &subjectRec{
				id:        len(subjects) + 1,
				projectID: projectID,
				code:      row.Subject,
				condition: row.Condition,
				age:       parseAge(row.Age),
				sex:       row.Sex,
			}
			subjectIDs[subjKey] = subj
			subjects = append(subjects, subj)
		} else if subj.condition != row.Condition || subj.sex != row.Sex {
			return Result{}, fmt.Errorf("csv line %d: subject %s metadata contradicts an earlier row", line, row.Subject)
		}

		courseKey := fmt.Sprintf("%d\x00%s\x00%s", subj.id, row.Treatment, row.Response)
		course, ok := courseIDs[courseKey]
		if !ok {
			course = &courseRec{
				id:        len(courses) + 1,
				subjectID: subj.id,
				treatment: row.Treatment,
				response:  parseResponse(row.Response),
			}
			courseIDs[courseKey] = course
			courses = append(courses, course)
		}

		smp, ok := sampleIDs[row.Sample]
		if !ok {
			smp = &sampleRec{
				id:       len(samples) + 1,
				code:     row.Sample,
				subject:  subj.id,
				course:   course.id,
				kind:     row.SampleType,
				timeFrom: row.TimeFromTreatmentStart,
			}
			sampleIDs[row.Sample] = smp
			samples = append(samples, smp)
		} else if smp.subject != subj.id || smp.course != course.id ||
			smp.kind != row.SampleType || smp.timeFrom != row.TimeFromTreatmentStart {
			return Result{}, fmt.Errorf("csv line %d: sample %s metadata contradicts an earlier row", line, row.Sample)
		}

		populationID, ok := populationIDs[row.Population]
		if !ok {
			populationID = len(populations) + 1
			populationIDs[row.Population] = populationID
			populations = append(populations, row.Population)
		}

		key := [2]int{smp.id, populationID}
		if seen[key] {
			return Result{}, fmt.Errorf("csv line %d: duplicate observation for sample %s population %s", line, row.Sample, row.Population)
		}
		seen[key] = true
		counts = append(counts, cellCount{sampleID: smp.id, populationID: populationID, count: row.Count})
	}

	tx, err := db.Begin()
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if replace {
		// Child tables first to satisfy foreign keys.
		for _, table := range []string{"cell_counts", "samples", "treatment_courses", "subjects", "populations", "projects"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return Result{}, fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	for i, name := range projects {
		if _, err := tx.Exec(`INSERT INTO projects (id, name) VALUES ($1, $2)`, i+1, name); err != nil {
			return Result{}, fmt.Errorf("failed to insert project %s: %w", name, err)
		}
	}
	for _, s := range subjects {
		_, err := tx.Exec(`
			INSERT INTO subjects (id, subject_code, project_id, condition, age, sex)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, s.id, s.code, s.projectID, s.condition, s.age, s.sex)
		if err != nil {
			return Result{}, fmt.Errorf("failed to insert subject %s: %w", s.code, err)
		}
	}
	for _, c := range courses {
		_, err := tx.Exec(`
			INSERT INTO treatment_courses (id, subject_id, treatment, response)
			VALUES ($1, $2, $3, $4)
		`, c.id, c.subjectID, c.treatment, c.response)
		if err != nil {
			return Result{}, fmt.Errorf("failed to insert treatment course: %w", err)
		}
	}
	for _, s := range samples {
		_, err := tx.Exec(`
			INSERT INTO samples (id, sample_code, subject_id, treatment_course_id, sample_type, time_from_treatment_start)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, s.id, s.code, s.subject, s.course, s.kind, s.timeFrom)
		if err != nil {
			return Result{}, fmt.Errorf("failed to insert sample %s: %w", s.code, err)
		}
	}
	for i, name := range populations {
		if _, err := tx.Exec(`INSERT INTO populations (id, name) VALUES ($1, $2)`, i+1, name); err != nil {
			return Result{}, fmt.Errorf("failed to insert population %s: %w", name, err)
		}
	}
	for _, cc := range counts {
		_, err := tx.Exec(`
			INSERT INTO cell_counts (sample_id, population_id, count)
			VALUES ($1, $2, $3)
		`, cc.sampleID, cc.populationID, cc.count)
		if err != nil {
			return Result{}, fmt.Errorf("failed to insert cell count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit load transaction: %w", err)
	}
	committed = true

	return Result{
		Projects:         len(projects),
		Subjects:         len(subjects),
		TreatmentCourses: len(courses),
		Samples:          len(samples),
		Populations:      len(populations),
		CellCounts:       len(counts),
	}, nil
}

func validate(row *Row) error {
	switch {
	case row.Project == "":
		return errors.New("project is required")
	case row.Subject == "":
		return errors.New("subject is required")
	case row.Condition == "":
		return errors.New("condition is required")
	case row.Treatment == "":
		return errors.New("treatment is required")
	case row.Sample == "":
		return errors.New("sample is required")
	case row.Population == "":
		return errors.New("population is required")
	}

	if row.Sex != "M" && row.Sex != "F" {
		return fmt.Errorf("sex must be M or F, got %q", row.Sex)
	}
	if row.SampleType != models.SampleTypePBMC && row.SampleType != models.SampleTypeWB {
		return fmt.Errorf("sample_type must be PBMC or WB, got %q", row.SampleType)
	}
	if row.Response != "" && row.Response != models.ResponseYes && row.Response != models.ResponseNo {
		return fmt.Errorf("response must be yes, no, or empty, got %q", row.Response)
	}
	if row.Age != "" {
		if _, err := strconv.Atoi(row.Age); err != nil {
			return fmt.Errorf("age must be an integer or empty, got %q", row.Age)
		}
	}
	if row.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", row.Count)
	}
	if row.TimeFromTreatmentStart < 0 {
		return fmt.Errorf("time_from_treatment_start must be non-negative, got %d", row.TimeFromTreatmentStart)
	}

	return nil
}

func parseAge(s string) *int {
	if s == "" {
		return nil
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &age
}

func parseResponse(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
