// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Projects (top-level study grouping)
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Subjects (scoped to a project; subject codes repeat across projects, not within one)
CREATE TABLE IF NOT EXISTS subjects (
    id INTEGER PRIMARY KEY,
    subject_code TEXT NOT NULL,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    condition TEXT NOT NULL,
    age INTEGER,
    sex TEXT NOT NULL CHECK (sex IN ('M', 'F')),
    UNIQUE (project_id, subject_code)
);

CREATE INDEX IF NOT EXISTS idx_subjects_project ON subjects(project_id);

-- Treatment courses (a subject may have several; response is per course)
CREATE TABLE IF NOT EXISTS treatment_courses (
    id INTEGER PRIMARY KEY,
    subject_id INTEGER NOT NULL REFERENCES subjects(id),
    treatment TEXT NOT NULL,
    response TEXT CHECK (response IN ('yes', 'no'))
);

CREATE INDEX IF NOT EXISTS idx_treatment_courses_subject ON treatment_courses(subject_id);

-- Samples (time_from_treatment_start = 0 is baseline)
CREATE TABLE IF NOT EXISTS samples (
    id INTEGER PRIMARY KEY,
    sample_code TEXT NOT NULL UNIQUE,
    subject_id INTEGER NOT NULL REFERENCES subjects(id),
    treatment_course_id INTEGER NOT NULL REFERENCES treatment_courses(id),
    sample_type TEXT NOT NULL CHECK (sample_type IN ('PBMC', 'WB')),
    time_from_treatment_start INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_samples_subject ON samples(subject_id);
CREATE INDEX IF NOT EXISTS idx_samples_course ON samples(treatment_course_id);
CREATE INDEX IF NOT EXISTS idx_samples_type_time ON samples(sample_type, time_from_treatment_start);

-- Immune cell population dimension
CREATE TABLE IF NOT EXISTS populations (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Fact table: one row per (sample, population)
CREATE TABLE IF NOT EXISTS cell_counts (
    sample_id INTEGER NOT NULL REFERENCES samples(id),
    population_id INTEGER NOT NULL REFERENCES populations(id),
    count INTEGER NOT NULL CHECK (count >= 0),
    PRIMARY KEY (sample_id, population_id)
);

CREATE INDEX IF NOT EXISTS idx_cell_counts_population ON cell_counts(population_id);
`
