// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - projects: Top-level study/cohort grouping
  - subjects: Clinical subjects, scoped to a project
  - treatment_courses: Treatment + outcome (response yes/no/NULL) per course
  - samples: Physical draws (PBMC or WB) with time from treatment start
  - populations: Immune cell type dimension (b_cell, cd4_t_cell, ...)
  - cell_counts: Fact table, one row per (sample, population)

# Relationships

	projects 1──* subjects
	subjects 1──* treatment_courses
	subjects 1──* samples
	treatment_courses 1──* samples
	samples 1──* cell_counts
	populations 1──* cell_counts

A sample's treatment course always belongs to the sample's subject; the
loader enforces this before insert.

# Mutability

The dataset is written only by the loader (full replace in one transaction).
Every API endpoint is a pure read, so no further locking discipline is needed.

# Indexes

Lookup indexes on:

  - subjects.project_id
  - treatment_courses.subject_id
  - samples.subject_id
  - samples.treatment_course_id
  - samples.(sample_type, time_from_treatment_start)
  - cell_counts.population_id
*/
package db
