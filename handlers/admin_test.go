// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mliang-bio/cell-counts-dashboard/auth"
	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/models"
	"github.com/mliang-bio/cell-counts-dashboard/testutil"
)

const reloadCSV = `project,subject,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,population,count
prj1,sbj1,melanoma,70,F,miraclib,yes,s1,PBMC,0,b_cell,250
prj1,sbj1,melanoma,70,F,miraclib,yes,s1,PBMC,0,cd4_t_cell,750
prj1,sbj2,melanoma,65,M,miraclib,no,s2,PBMC,0,b_cell,400
`

func writeReloadCSV(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cell-count.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write test csv: %v", err)
	}
	return path
}

func reloadConfig(csvPath string) cliparse.Config {
	cfg := testutil.GetTestConfig()
	cfg.LoadCSV = csvPath
	return cfg
}

func TestReload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	// Pre-existing rows must be gone after a reload.
	s := testutil.NewSeeder(t, db)
	project := s.Project("stale")
	subject := s.Subject(project, "old-sbj", "carcinoma", nil, "M")
	course := s.Course(subject, "phauximab", "")
	sample := s.Sample("old-s1", subject, course, models.SampleTypeWB, 0)
	s.Count(sample, "nk_cell", 10)

	cfg := reloadConfig(writeReloadCSV(t, reloadCSV))
	h := NewAdminHandler(db, cfg)

	key := auth.GenerateAdminKey(auth.ScopeLoader, cfg.AdminKeySalt)
	req := testutil.MakeRequest("POST", "/api/v1/admin/reload", nil, map[string]string{"X-Admin-Key": key})
	w := httptest.NewRecorder()
	h.Reload(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.ReloadResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.Reloaded {
		t.Error("Expected reloaded to be true")
	}
	if resp.Samples != 2 || resp.CellCounts != 3 {
		t.Errorf("Expected 2 samples and 3 cell counts, got %d/%d", resp.Samples, resp.CellCounts)
	}

	var staleProjects int
	if err := db.QueryRow(`SELECT COUNT(*) FROM projects WHERE name = 'stale'`).Scan(&staleProjects); err != nil {
		t.Fatalf("Failed to query projects: %v", err)
	}
	if staleProjects != 0 {
		t.Error("Expected the previous dataset to be replaced")
	}
}

func TestReloadInvalidKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := reloadConfig(writeReloadCSV(t, reloadCSV))
	h := NewAdminHandler(db, cfg)

	testCases := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong key", map[string]string{"X-Admin-Key": "not-the-key"}},
		{"key for a different salt", map[string]string{"X-Admin-Key": auth.GenerateAdminKey(auth.ScopeLoader, "other-salt")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/v1/admin/reload", nil, tc.headers)
			w := httptest.NewRecorder()
			h.Reload(w, req)
			testutil.AssertStatus(t, w, 401)
		})
	}
}

func TestReloadNotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	noSalt := testutil.GetTestConfig()
	noSalt.AdminKeySalt = ""
	noSalt.LoadCSV = "some.csv"

	noCSV := testutil.GetTestConfig()

	testCases := []struct {
		name string
		cfg  cliparse.Config
	}{
		{"no admin salt", noSalt},
		{"no source csv", noCSV},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAdminHandler(db, tc.cfg)
			key := auth.GenerateAdminKey(auth.ScopeLoader, tc.cfg.AdminKeySalt)
			req := testutil.MakeRequest("POST", "/api/v1/admin/reload", nil, map[string]string{"X-Admin-Key": key})
			w := httptest.NewRecorder()
			h.Reload(w, req)
			testutil.AssertStatus(t, w, 503)
		})
	}
}

func TestReloadBadCSVLeavesDataIntact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	s := testutil.NewSeeder(t, db)
	project := s.Project("prj1")
	subject := s.Subject(project, "sbj1", "melanoma", nil, "F")
	course := s.Course(subject, "miraclib", models.ResponseYes)
	sample := s.Sample("s1", subject, course, models.SampleTypePBMC, 0)
	s.Count(sample, "b_cell", 100)

	// Invalid sex fails validation before any row is written.
	bad := `project,subject,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,population,count
prj9,sbj9,melanoma,70,X,miraclib,yes,s9,PBMC,0,b_cell,250
`
	cfg := reloadConfig(writeReloadCSV(t, bad))
	h := NewAdminHandler(db, cfg)

	key := auth.GenerateAdminKey(auth.ScopeLoader, cfg.AdminKeySalt)
	req := testutil.MakeRequest("POST", "/api/v1/admin/reload", nil, map[string]string{"X-Admin-Key": key})
	w := httptest.NewRecorder()
	h.Reload(w, req)

	testutil.AssertStatus(t, w, 500)

	var samples int
	if err := db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&samples); err != nil {
		t.Fatalf("Failed to query samples: %v", err)
	}
	if samples != 1 {
		t.Errorf("Expected the existing dataset to survive a failed reload, got %d samples", samples)
	}
}
