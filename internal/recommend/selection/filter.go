// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package selection

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/venuerank/internal/metrics"
	"github.com/tomtom215/venuerank/internal/recommend"
)

// RuleFilter applies the business rules to a scored candidate list.
// It is stateless apart from its configuration and safe for concurrent use.
type RuleFilter struct {
	cfg recommend.RulesConfig
}

// NewRuleFilter creates a rule filter with the given parameters.
func NewRuleFilter(cfg recommend.RulesConfig) *RuleFilter {
	return &RuleFilter{cfg: cfg}
}

// Name returns the selector identifier.
func (f *RuleFilter) Name() string {
	return "business-rules"
}

// Select returns up to k recommendations honoring the business rules.
// Fewer than k is a valid result when the rules cannot be satisfied with
// more; the filter never pads.
func (f *RuleFilter) Select(_ context.Context, scored []recommend.Recommendation, k int) []recommend.Recommendation {
	if len(scored) == 0 {
		return []recommend.Recommendation{}
	}
	k = f.clampK(k)

	ranked := make([]recommend.Recommendation, len(scored))
	copy(ranked, scored)
	sortByScore(ranked)

	sel := f.greedyFill(ranked, k)
	f.repairDiversity(sel, countDistinctCategories(scored))

	out := append([]recommend.Recommendation{}, sel.picked...)
	sortByScore(out)
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// clampK resolves the requested list size against the configured bounds.
func (f *RuleFilter) clampK(k int) int {
	switch {
	case k <= 0:
		return f.cfg.DefaultK
	case k < f.cfg.MinK:
		return f.cfg.MinK
	case k > f.cfg.MaxK:
		return f.cfg.MaxK
	default:
		return k
	}
}

// selection tracks the working state of one Select pass.
type selection struct {
	picked       []recommend.Recommendation
	pool         []recommend.Recommendation // cap/capacity skips, still rule-eligible
	businesses   map[string]struct{}
	sponsored    int
	sponsoredCap int
	k            int
}

// greedyFill scans the ranked list applying the duplicate-business and
// sponsored-ratio rules. Candidates passed over for capacity or the
// sponsored cap stay in the pool for diversity repair; duplicates of an
// already-selected business are excluded outright.
func (f *RuleFilter) greedyFill(ranked []recommend.Recommendation, k int) *selection {
	sel := &selection{
		picked:       make([]recommend.Recommendation, 0, k),
		businesses:   make(map[string]struct{}),
		sponsoredCap: int(math.Floor(f.cfg.SponsoredRatio * float64(k))),
		k:            k,
	}

	for i := range ranked {
		rec := ranked[i]
		bid := rec.Candidate.BusinessID
		if bid != "" {
			if _, dup := sel.businesses[bid]; dup {
				metrics.DuplicateBusinessSkips.Inc()
				continue
			}
		}

		if len(sel.picked) < k && (!rec.IsSponsored || sel.sponsored < sel.sponsoredCap) {
			sel.add(rec)
			continue
		}

		if len(sel.picked) < k && rec.IsSponsored {
			metrics.SponsoredCapSkips.Inc()
		}
		sel.pool = append(sel.pool, rec)
	}

	return sel
}

// add appends a recommendation and updates the rule accounting.
//
//nolint:gocritic // hugeParam: rec passed by value for immutability
func (s *selection) add(rec recommend.Recommendation) {
	s.picked = append(s.picked, rec)
	if bid := rec.Candidate.BusinessID; bid != "" {
		s.businesses[bid] = struct{}{}
	}
	if rec.IsSponsored {
		s.sponsored++
	}
}

// removeAt drops the picked entry at index and reverses its accounting.
func (s *selection) removeAt(idx int) {
	rec := s.picked[idx]
	if bid := rec.Candidate.BusinessID; bid != "" {
		delete(s.businesses, bid)
	}
	if rec.IsSponsored {
		s.sponsored--
	}
	s.picked = append(s.picked[:idx], s.picked[idx+1:]...)
}

// repairDiversity enforces the category diversity floor with a bounded
// best-effort substitution: the lowest-scoring entry of an over-represented
// category makes room for the best pool candidate from an absent category.
// Each pass touches each absent category at most once, so the loop is
// bounded by the floor itself.
func (f *RuleFilter) repairDiversity(sel *selection, distinctInput int) {
	need := f.cfg.DiversityFloor
	if distinctInput < need {
		need = distinctInput
	}

	for attempt := 0; attempt < f.cfg.DiversityFloor; attempt++ {
		cats := categoryCounts(sel.picked)
		if len(cats) >= need {
			return
		}
		if !f.substituteOne(sel, cats) {
			return
		}
		metrics.DiversitySubstitutions.Inc()
	}
}

// substituteOne performs a single diversity swap (or a plain add when the
// list is not full). Returns false when no rule-compliant substitution
// exists; the floor is then best-effort unreachable.
func (f *RuleFilter) substituteOne(sel *selection, cats map[string]int) bool {
	for pi := range sel.pool {
		rec := sel.pool[pi]
		cat := recommend.NormalizeCategory(rec.Candidate.Category)
		if _, present := cats[cat]; present {
			continue
		}
		if bid := rec.Candidate.BusinessID; bid != "" {
			if _, dup := sel.businesses[bid]; dup {
				continue
			}
		}

		victim := -1
		if len(sel.picked) >= sel.k {
			victim = f.victimIndex(sel.picked, cats)
			if victim < 0 {
				return false
			}
		}

		// The swap must leave the sponsored cap intact.
		sponsoredAfter := sel.sponsored
		if victim >= 0 && sel.picked[victim].IsSponsored {
			sponsoredAfter--
		}
		if rec.IsSponsored {
			sponsoredAfter++
		}
		if rec.IsSponsored && sponsoredAfter > sel.sponsoredCap {
			continue
		}

		if victim >= 0 {
			sel.removeAt(victim)
		}
		sel.add(rec)
		sel.pool = append(sel.pool[:pi], sel.pool[pi+1:]...)
		return true
	}

	return false
}

// victimIndex returns the lowest-scoring picked entry from a category with
// more than one representative, or -1 when removing anything would shrink
// category coverage.
func (f *RuleFilter) victimIndex(picked []recommend.Recommendation, cats map[string]int) int {
	victim := -1
	for i := range picked {
		cat := recommend.NormalizeCategory(picked[i].Candidate.Category)
		if cats[cat] < 2 {
			continue
		}
		if victim < 0 || less(picked[i], picked[victim]) {
			victim = i
		}
	}
	return victim
}

// countDistinctCategories counts distinct normalized categories in the
// full scored input.
func countDistinctCategories(scored []recommend.Recommendation) int {
	seen := make(map[string]struct{}, len(scored))
	for i := range scored {
		seen[recommend.NormalizeCategory(scored[i].Candidate.Category)] = struct{}{}
	}
	return len(seen)
}

// categoryCounts tallies picked entries per normalized category.
func categoryCounts(picked []recommend.Recommendation) map[string]int {
	out := make(map[string]int, len(picked))
	for i := range picked {
		out[recommend.NormalizeCategory(picked[i].Candidate.Category)]++
	}
	return out
}

// sortByScore orders by final score descending, then candidate ID
// ascending. The full comparator makes the order reproducible regardless of
// input permutation.
func sortByScore(recs []recommend.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return less(recs[j], recs[i])
	})
}

// less reports whether a ranks strictly below b.
//
//nolint:gocritic // hugeParam: recs passed by value for immutability
func less(a, b recommend.Recommendation) bool {
	if a.Breakdown.Final != b.Breakdown.Final {
		return a.Breakdown.Final < b.Breakdown.Final
	}
	return a.Candidate.ID > b.Candidate.ID
}

// Interface compliance.
var _ recommend.Selector = (*RuleFilter)(nil)
