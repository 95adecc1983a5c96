// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// mannWhitneyU compares two independent samples with the two-sided
// Mann-Whitney U test. Ties receive mid-ranks and the rank variance carries
// the standard tie correction; the p-value is the normal approximation with
// continuity correction. The returned U is the statistic of the first group.
// ok is false when either group has fewer than two observations, in which
// case no statistic is defined.
func mannWhitneyU(xs, ys []float64) (u, p float64, ok bool) {
	n1, n2 := len(xs), len(ys)
	if n1 < 2 || n2 < 2 {
		return 0, 0, false
	}

	type entry struct {
		val   float64
		first bool
	}
	combined := make([]entry, 0, n1+n2)
	for _, v := range xs {
		combined = append(combined, entry{val: v, first: true})
	}
	for _, v := range ys {
		combined = append(combined, entry{val: v})
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].val < combined[j].val
	})

	// Mid-rank averaging over tie runs; collect the tie term for the
	// variance correction in the same pass.
	n := len(combined)
	ranks := make([]float64, n)
	tieSum := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && combined[j].val == combined[i].val {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		if t := float64(j - i); t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}

	r1 := 0.0
	for i, e := range combined {
		if e.first {
			r1 += ranks[i]
		}
	}

	n1f, n2f, nf := float64(n1), float64(n2), float64(n)
	u1 := r1 - n1f*(n1f+1)/2
	u2 := n1f*n2f - u1

	mu := n1f * n2f / 2
	sigma := math.Sqrt(n1f * n2f * ((nf + 1) - tieSum/(nf*(nf-1))) / 12)
	if sigma < 1e-12 {
		// Every value tied with every other: the distributions are identical.
		return u1, 1, true
	}

	z := (math.Min(u1, u2) - mu + 0.5) / sigma
	p = 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	return u1, p, true
}

// benjaminiHochberg applies the BH step-up FDR adjustment to a set of
// p-values and returns the q-values in the input order. q = p*m/rank with a
// running minimum taken from the largest rank down, capped at 1.
func benjaminiHochberg(pvals []float64) []float64 {
	m := len(pvals)
	if m == 0 {
		return nil
	}

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return pvals[idx[i]] < pvals[idx[j]]
	})

	qvals := make([]float64, m)
	minQ := 1.0
	for i := m - 1; i >= 0; i-- {
		rank := i + 1
		adjusted := pvals[idx[i]] * float64(m) / float64(rank)
		if adjusted > 1 {
			adjusted = 1
		}
		if adjusted < minQ {
			minQ = adjusted
		} else {
			adjusted = minQ
		}
		qvals[idx[i]] = adjusted
	}

	return qvals
}

// medianOf returns the standard median (even n averages the two middle
// values), or nil for an empty slice.
func medianOf(vals []float64) *float64 {
	med, err := stats.Median(stats.Float64Data(vals))
	if err != nil {
		return nil
	}
	return &med
}
