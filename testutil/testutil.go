// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory. The file is removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseType: "sqlite",
		DatabasePath: "unused-in-tests.db",
		AdminKeySalt: "test-admin-salt",
	}
}

// Seeder inserts related rows with sequential IDs, deduplicating projects
// and populations by name the way the loader does.
type Seeder struct {
	t  *testing.T
	db *sql.DB

	nextSubject int
	nextCourse  int
	nextSample  int

	projects    map[string]int
	populations map[string]int
}

func NewSeeder(t *testing.T, db *sql.DB) *Seeder {
	t.Helper()
	return &Seeder{
		t:           t,
		db:          db,
		projects:    map[string]int{},
		populations: map[string]int{},
	}
}

// Project inserts a project (or returns the existing ID for the name).
func (s *Seeder) Project(name string) int {
	s.t.Helper()

	if id, ok := s.projects[name]; ok {
		return id
	}
	id := len(s.projects) + 1
	if _, err := s.db.Exec(`INSERT INTO projects (id, name) VALUES ($1, $2)`, id, name); err != nil {
		s.t.Fatalf("Failed to insert project: %v", err)
	}
	s.projects[name] = id
	return id
}

// Subject inserts a subject under a project. age may be nil.
func (s *Seeder) Subject(projectID int, code, condition string, age *int, sex string) int {
	s.t.Helper()

	s.nextSubject++
	_, err := s.db.Exec(`
		INSERT INTO subjects (id, subject_code, project_id, condition, age, sex)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.nextSubject, code, projectID, condition, age, sex)
	if err != nil {
		s.t.Fatalf("Failed to insert subject: %v", err)
	}
	return s.nextSubject
}

// Course inserts a treatment course. An empty response becomes NULL.
func (s *Seeder) Course(subjectID int, treatment, response string) int {
	s.t.Helper()

	var resp *string
	if response != "" {
		resp = &response
	}
	s.nextCourse++
	_, err := s.db.Exec(`
		INSERT INTO treatment_courses (id, subject_id, treatment, response)
		VALUES ($1, $2, $3, $4)
	`, s.nextCourse, subjectID, treatment, resp)
	if err != nil {
		s.t.Fatalf("Failed to insert treatment course: %v", err)
	}
	return s.nextCourse
}

// Sample inserts a sample belonging to a subject and course.
func (s *Seeder) Sample(code string, subjectID, courseID int, sampleType string, timeFrom int) int {
	s.t.Helper()

	s.nextSample++
	_, err := s.db.Exec(`
		INSERT INTO samples (id, sample_code, subject_id, treatment_course_id, sample_type, time_from_treatment_start)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.nextSample, code, subjectID, courseID, sampleType, timeFrom)
	if err != nil {
		s.t.Fatalf("Failed to insert sample: %v", err)
	}
	return s.nextSample
}

// Population inserts a population (or returns the existing ID for the name).
func (s *Seeder) Population(name string) int {
	s.t.Helper()

	if id, ok := s.populations[name]; ok {
		return id
	}
	id := len(s.populations) + 1
	if _, err := s.db.Exec(`INSERT INTO populations (id, name) VALUES ($1, $2)`, id, name); err != nil {
		s.t.Fatalf("Failed to insert population: %v", err)
	}
	s.populations[name] = id
	return id
}

// Count inserts one cell count observation.
func (s *Seeder) Count(sampleID int, population string, count int64) {
	s.t.Helper()

	populationID := s.Population(population)
	_, err := s.db.Exec(`
		INSERT INTO cell_counts (sample_id, population_id, count)
		VALUES ($1, $2, $3)
	`, sampleID, populationID, count)
	if err != nil {
		s.t.Fatalf("Failed to insert cell count: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
