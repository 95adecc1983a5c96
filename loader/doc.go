// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package loader populates the database from a CSV export.

# Input Format

Long format, one row per (sample, population) observation:

	project,subject,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,population,count
	prj1,sbj1,melanoma,63,F,miraclib,yes,s1,PBMC,0,b_cell,12000

Empty age and response fields become NULL. Subject, course, and sample
metadata repeats across a sample's rows and must agree with its first
occurrence; a contradiction fails the load with the offending line number.

# Loading

	result, err := loader.LoadFile(db, "cell-count.csv", true)

With replace set, all six tables are cleared before insert. Clear and insert
run in a single transaction, so a failed load leaves the previous dataset
untouched and concurrent readers never see a half-loaded state.

IDs are assigned sequentially in order of first appearance, which makes a
reload of the same CSV byte-for-byte reproducible.

# Validation

Each row is checked before anything touches the database: required columns,
sex in {M, F}, sample_type in {PBMC, WB}, response in {yes, no, empty},
integer age, non-negative count and time, and no duplicate
(sample, population) pair.
*/
package loader
