// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package scoring

import (
	"math"

	"github.com/tomtom215/venuerank/internal/recommend"
)

// noDistance marks a breakdown scored without any location reference.
const noDistance = -1

// Calculator computes the multi-factor score breakdown for one candidate.
// It is stateless apart from its configuration and safe for concurrent use.
type Calculator struct {
	cfg recommend.ScoringConfig
}

// NewCalculator creates a calculator with the given point budgets.
func NewCalculator(cfg recommend.ScoringConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Name returns the scorer identifier.
func (c *Calculator) Name() string {
	return "multifactor"
}

// Score computes the sub-scores for a candidate. SponsorMultiplier and
// Final are left for the boost applier.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) Score(candidate recommend.Candidate, user recommend.UserProfile, learned recommend.AIProfile, rctx recommend.RequestContext) recommend.ScoreBreakdown {
	location, distance := c.locationScore(candidate, user)

	return recommend.ScoreBreakdown{
		Base:          c.baseScore(candidate, user),
		Location:      location,
		Time:          c.timeScore(candidate, rctx),
		Feedback:      c.feedbackScore(candidate, learned),
		Collaborative: c.collaborativeScore(rctx),
		Distance:      distance,
	}
}

// baseScore rewards stated-interest matches, with a related-category tier
// and a non-zero exploration baseline.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) baseScore(candidate recommend.Candidate, user recommend.UserProfile) float64 {
	category := recommend.NormalizeCategory(candidate.Category)

	for i, interest := range user.Interests {
		if recommend.NormalizeCategory(interest) != category {
			continue
		}
		if i < c.cfg.TopInterestCount {
			return c.cfg.BaseTopInterest
		}
		return c.cfg.BaseInterest
	}

	for _, interest := range user.Interests {
		if recommend.RelatedTo(category, interest) {
			return c.cfg.BaseRelated
		}
	}

	return c.cfg.BaseDefault
}

// locationScore scores proximity to the nearest reference: home, work, or
// the commute segment between them. The second return is the distance used,
// or noDistance when the profile has no reference point.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) locationScore(candidate recommend.Candidate, user recommend.UserProfile) (score, distance float64) {
	d := math.Inf(1)
	if user.HomeLocation != nil {
		d = math.Min(d, Haversine(candidate.Location, *user.HomeLocation))
	}
	if user.WorkLocation != nil {
		d = math.Min(d, Haversine(candidate.Location, *user.WorkLocation))
	}
	if user.HomeLocation != nil && user.WorkLocation != nil {
		d = math.Min(d, DistanceToSegment(candidate.Location, *user.HomeLocation, *user.WorkLocation))
	}
	if math.IsInf(d, 1) {
		return c.cfg.LocationNeutral, noDistance
	}

	maxDist := user.MaxDistance
	if maxDist <= c.cfg.CloseDistance {
		maxDist = c.cfg.DefaultMaxDistance
	}

	switch {
	case d <= c.cfg.NearDistance:
		return c.cfg.LocationNear, d
	case d <= c.cfg.CloseDistance:
		return c.cfg.LocationClose, d
	case d <= maxDist:
		// Linear falloff from the close score down to the scaled minimum
		// at the user's travel radius.
		frac := (d - c.cfg.CloseDistance) / (maxDist - c.cfg.CloseDistance)
		return c.cfg.LocationClose - frac*(c.cfg.LocationClose-c.cfg.LocationScaledMin), d
	default:
		// Distance alone never disqualifies.
		return c.cfg.LocationFar, d
	}
}

// timeScore scores the target hour against the category's canonical
// windows. Categories outside the taxonomy get a neutral default.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) timeScore(candidate recommend.Candidate, rctx recommend.RequestContext) float64 {
	quality, known := recommend.WindowQualityFor(candidate.Category, rctx.Now.Hour())
	if !known {
		return c.cfg.TimeUnknown
	}

	switch quality {
	case recommend.WindowIdeal:
		return c.cfg.TimeIdeal
	case recommend.WindowSecondary:
		return c.cfg.TimeSecondary
	default:
		return c.cfg.TimeOffPeak
	}
}

// feedbackScore derives a score from the learned profile. The sub-score
// floors at zero rather than going negative: the dislike penalty is deeper
// than the price-match bonus, so a disliked category scores zero even when
// its price matches. The bonus never pushes past the sub-score budget.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) feedbackScore(candidate recommend.Candidate, learned recommend.AIProfile) float64 {
	var score float64
	switch {
	case learned.IsFavorite(candidate.Category):
		score = c.cfg.FeedbackFavorite
	case learned.IsDisliked(candidate.Category):
		return 0
	default:
		score = c.cfg.FeedbackNeutral
	}

	if priceMatches(candidate.PriceTier, learned.PriceSensitivity) {
		score += c.cfg.FeedbackPriceMatch
	}

	return math.Min(score, c.cfg.FeedbackMax)
}

// collaborativeScore returns the neutral constant, or the clamped external
// override when the request carries one. This core reserves the budget but
// does not implement cross-user similarity itself.
//
//nolint:gocritic // hugeParam: inputs passed by value for immutability
func (c *Calculator) collaborativeScore(rctx recommend.RequestContext) float64 {
	if rctx.CollaborativeOverride == nil {
		return c.cfg.CollaborativeDefault
	}

	v := *rctx.CollaborativeOverride
	if v < 0 {
		return 0
	}
	if v > c.cfg.CollaborativeMax {
		return c.cfg.CollaborativeMax
	}
	return v
}

// priceMatches reports whether the candidate price tier fits the learned
// sensitivity. Unknown price never matches; price-sensitive users match
// only cheap tiers while insensitive users match anything.
func priceMatches(tier int, sensitivity recommend.PriceSensitivity) bool {
	if tier < 0 || tier > 3 {
		return false
	}

	switch sensitivity {
	case recommend.PriceSensitivityHigh:
		return tier <= 1
	case recommend.PriceSensitivityMedium:
		return tier <= 2
	default:
		return true
	}
}

// Interface compliance.
var _ recommend.Scorer = (*Calculator)(nil)
