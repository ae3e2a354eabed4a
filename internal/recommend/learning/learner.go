// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package learning

import (
	"strings"

	"github.com/tomtom215/venuerank/internal/metrics"
	"github.com/tomtom215/venuerank/internal/recommend"
)

// Tag signals the learner reacts to. Matching is case-insensitive on the
// trimmed tag; anything else is ignored.
var (
	goodValueTags  = map[string]struct{}{"good value": {}, "great value": {}}
	convenientTags = map[string]struct{}{"convenient": {}, "close by": {}}
	expensiveTags  = map[string]struct{}{"too expensive": {}}
	tooFarTags     = map[string]struct{}{"too far": {}}
	crowdedTags    = map[string]struct{}{"too crowded": {}}
)

// Learner applies feedback transitions to learned profiles. It is pure
// and safe for concurrent use; callers own profile persistence and event
// ordering.
type Learner struct {
	cfg recommend.LearningConfig
}

// NewLearner creates a profile learner with the given step parameters.
func NewLearner(cfg recommend.LearningConfig) *Learner {
	return &Learner{cfg: cfg}
}

// Name returns the learner identifier.
func (l *Learner) Name() string {
	return "rule-based"
}

// Apply performs one transition and returns the resulting profile. The
// input profile is never modified. Category membership moves are applied
// before tag effects; the favorite and disliked sets come out disjoint
// and sorted regardless of the input's state.
func (l *Learner) Apply(profile recommend.AIProfile, event recommend.FeedbackEvent) recommend.AIProfile {
	out := profile.Clone()
	category := recommend.NormalizeCategory(event.Category)

	switch event.Rating {
	case recommend.RatingPositive:
		if category != "" {
			out.FavoriteCategories = append(out.FavoriteCategories, category)
			out.DislikedCategories = removeCategory(out.DislikedCategories, category)
		}
		l.applyPositiveTags(&out, event.Tags)
	case recommend.RatingNegative:
		if category != "" {
			out.DislikedCategories = append(out.DislikedCategories, category)
			out.FavoriteCategories = removeCategory(out.FavoriteCategories, category)
		}
		l.applyNegativeTags(&out, event.Tags)
	}

	normalizeSets(&out)
	metrics.ProfileTransitions.WithLabelValues(event.Rating.String()).Inc()
	return out
}

func (l *Learner) applyPositiveTags(p *recommend.AIProfile, tags []string) {
	for _, raw := range tags {
		tag := normalizeTag(raw)
		if _, ok := goodValueTags[tag]; ok {
			p.PriceSensitivity = stepDown(p.PriceSensitivity)
			continue
		}
		if _, ok := convenientTags[tag]; ok {
			p.PreferredDistance = l.stepDistance(p.PreferredDistance)
		}
	}
}

func (l *Learner) applyNegativeTags(p *recommend.AIProfile, tags []string) {
	for _, raw := range tags {
		tag := normalizeTag(raw)
		if _, ok := expensiveTags[tag]; ok {
			p.PriceSensitivity = stepUp(p.PriceSensitivity)
			continue
		}
		if _, ok := tooFarTags[tag]; ok {
			p.PreferredDistance = l.stepDistance(p.PreferredDistance)
			continue
		}
		if _, ok := crowdedTags[tag]; ok {
			// Counted for a future quiet-venue preference; no scoring
			// effect today.
			p.QuietSignals++
		}
	}
}

// stepDistance tightens the preferred distance by one step, never below
// the configured floor.
func (l *Learner) stepDistance(d float64) float64 {
	d -= l.cfg.DistanceStep
	if d < l.cfg.MinPreferredDistance {
		return l.cfg.MinPreferredDistance
	}
	return d
}

func stepDown(p recommend.PriceSensitivity) recommend.PriceSensitivity {
	if p > recommend.PriceSensitivityLow {
		return p - 1
	}
	return p
}

func stepUp(p recommend.PriceSensitivity) recommend.PriceSensitivity {
	if p < recommend.PriceSensitivityHigh {
		return p + 1
	}
	return p
}

// normalizeSets dedupes and sorts both category sets and removes any
// category from the disliked set that also appears in favorites. The
// transition that just ran decides which set wins, so favorites take
// precedence only for leftovers the caller introduced out of band.
func normalizeSets(p *recommend.AIProfile) {
	p.FavoriteCategories = recommend.SortedCategorySet(p.FavoriteCategories)
	p.DislikedCategories = recommend.SortedCategorySet(p.DislikedCategories)

	kept := p.DislikedCategories[:0]
	for _, c := range p.DislikedCategories {
		if !containsSorted(p.FavoriteCategories, c) {
			kept = append(kept, c)
		}
	}
	p.DislikedCategories = kept
}

func containsSorted(set []string, category string) bool {
	for _, c := range set {
		if c == category {
			return true
		}
		if c > category {
			return false
		}
	}
	return false
}

func removeCategory(set []string, category string) []string {
	out := set[:0]
	for _, c := range set {
		if recommend.NormalizeCategory(c) != category {
			out = append(out, c)
		}
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Interface compliance.
var _ recommend.Learner = (*Learner)(nil)
