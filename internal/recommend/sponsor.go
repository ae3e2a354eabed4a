// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import "math"

// BoostApplier applies the bounded multiplicative sponsor boost to a scored
// candidate and finalizes the breakdown.
//
// Anti-spam invariant: when the pre-boost total is below the low-relevance
// threshold, the additive gain from any paid tier is capped at an absolute
// number of points. Irrelevant listings cannot buy their way to the top
// regardless of spend tier.
type BoostApplier struct {
	cfg SponsorConfig
}

// NewBoostApplier creates a boost applier with the given parameters.
func NewBoostApplier(cfg SponsorConfig) *BoostApplier {
	return &BoostApplier{cfg: cfg}
}

// Apply fills in SponsorMultiplier and Final on the breakdown.
//
//	base_total >= threshold: final = base_total * multiplier
//	base_total <  threshold: final = base_total + min(base_total*(m-1), cap)
func (a *BoostApplier) Apply(b ScoreBreakdown, tier SponsorTier) ScoreBreakdown {
	m := a.cfg.Multiplier(tier)
	total := b.BaseTotal()

	b.SponsorMultiplier = m
	if total < a.cfg.LowRelevanceThreshold {
		b.Final = total + math.Min(total*(m-1), a.cfg.AbsoluteBoostCap)
	} else {
		b.Final = total * m
	}
	return b
}
