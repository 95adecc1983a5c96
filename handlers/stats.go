// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mliang-bio/cell-counts-dashboard/cliparse"
	"github.com/mliang-bio/cell-counts-dashboard/middleware"
	"github.com/mliang-bio/cell-counts-dashboard/models"
)

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// GetResponseFrequencies handles GET /api/v1/part3/frequencies
// Returns per-sample population frequencies for the filtered cohort, split
// by treatment response. Samples whose course has no recorded response are
// excluded.
func (h *StatsHandler) GetResponseFrequencies(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCohortFilter(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.queryResponseFrequencies(filter)
	if err != nil {
		slog.Error("failed to query response frequencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rows)
}

// GetStats handles GET /api/v1/part3/stats
// Compares responder and non-responder frequency distributions per
// population: group sizes, medians, two-sided Mann-Whitney U, and
// Benjamini-Hochberg q-values across all populations tested.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCohortFilter(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	populations, err := h.listPopulations()
	if err != nil {
		slog.Error("failed to query populations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	freqs, err := h.queryResponseFrequencies(filter)
	if err != nil {
		slog.Error("failed to query response frequencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Percentages grouped by population and response. A NULL percentage
	// (zero-total sample) is not an observation.
	type groups struct {
		yes []float64
		no  []float64
	}
	byPopulation := make(map[string]*groups, len(populations))
	for _, name := range populations {
		byPopulation[name] = &groups{}
	}
	for _, row := range freqs {
		if row.Percentage == nil {
			continue
		}
		g, ok := byPopulation[row.Population]
		if !ok {
			continue
		}
		switch row.Response {
		case models.ResponseYes:
			g.yes = append(g.yes, *row.Percentage)
		case models.ResponseNo:
			g.no = append(g.no, *row.Percentage)
		}
	}

	result := make([]models.PopulationStats, 0, len(populations))
	var pvals []float64
	var tested []int // indexes into result that produced a p-value
	for _, name := range populations {
		g := byPopulation[name]
		stat := models.PopulationStats{
			Population: name,
			NYes:       len(g.yes),
			NNo:        len(g.no),
			MedianYes:  medianOf(g.yes),
			MedianNo:   medianOf(g.no),
		}

		if u, p, ok := mannWhitneyU(g.yes, g.no); ok {
			stat.UStatistic = &u
			stat.PValue = &p
			stat.SignificantP005 = p < 0.05
			tested = append(tested, len(result))
			pvals = append(pvals, p)
		}

		result = append(result, stat)
	}

	// FDR correction spans only the populations that produced a p-value.
	qvals := benjaminiHochberg(pvals)
	for i, resultIdx := range tested {
		q := qvals[i]
		result[resultIdx].QValue = &q
		result[resultIdx].SignificantFDR005 = q < 0.05
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

func (h *StatsHandler) listPopulations() ([]string, error) {
	rows, err := h.db.Query(`SELECT name FROM populations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// queryResponseFrequencies selects the cohort, drops NULL-response courses,
// and computes each observation's relative frequency in SQL.
func (h *StatsHandler) queryResponseFrequencies(filter CohortFilter) ([]models.ResponseFrequencyRow, error) {
	clauses, args := filter.whereClauses(0)
	where := "WHERE tc.response IN ('yes', 'no')"
	if len(clauses) > 0 {
		where += " AND " + strings.Join(clauses, " AND ")
	}

	query := `
		WITH cohort AS (
			SELECT s.id AS sample_id, s.sample_code, tc.response` +
		cohortJoin + `
			` + where + `
		),
		totals AS (
			SELECT sample_id, SUM(count) AS total_count
			FROM cell_counts
			GROUP BY sample_id
		)
		SELECT c.sample_code, c.response, p.name,
		       CASE WHEN t.total_count > 0 THEN 100.0 * cc.count / t.total_count END AS percentage
		FROM cohort c
		JOIN cell_counts cc ON cc.sample_id = c.sample_id
		JOIN totals t ON t.sample_id = c.sample_id
		JOIN populations p ON p.id = cc.population_id
		ORDER BY p.name, c.sample_code
	`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.ResponseFrequencyRow{}
	for rows.Next() {
		var row models.ResponseFrequencyRow
		var percentage sql.NullFloat64
		if err := rows.Scan(&row.Sample, &row.Response, &row.Population, &percentage); err != nil {
			return nil, err
		}
		if percentage.Valid {
			row.Percentage = &percentage.Float64
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
