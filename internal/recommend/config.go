// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine. Every
// scoring constant lives here so the point budgets can be tuned without
// touching logic.
type Config struct {
	// Scoring contains the sub-score point budgets and thresholds.
	Scoring ScoringConfig `json:"scoring"`

	// Sponsor contains the paid-placement boost parameters.
	Sponsor SponsorConfig `json:"sponsor"`

	// Rules contains the business-rule selection parameters.
	Rules RulesConfig `json:"rules"`

	// Learning contains the profile learner step sizes.
	Learning LearningConfig `json:"learning"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// Seed is the random seed for request-ID jitter. The scoring pipeline
	// itself is fully deterministic. If zero, a fixed default is used.
	Seed int64 `json:"seed"`
}

// ScoringConfig contains the sub-score point budgets and thresholds.
// The budgets total 100 before the sponsor multiplier.
type ScoringConfig struct {
	// BaseTopInterest is awarded when the candidate category is among the
	// user's top-ranked interests. Default: 40.
	BaseTopInterest float64 `json:"base_top_interest"`

	// BaseInterest is awarded for any other stated interest. Default: 30.
	BaseInterest float64 `json:"base_interest"`

	// BaseRelated is awarded when the category is related to a stated
	// interest via the taxonomy mapping. Default: 20.
	BaseRelated float64 `json:"base_related"`

	// BaseDefault is the exploration baseline for unrelated categories.
	// Default: 10.
	BaseDefault float64 `json:"base_default"`

	// TopInterestCount is how many leading interests count as "top".
	// Default: 3.
	TopInterestCount int `json:"top_interest_count"`

	// LocationNear is awarded within NearDistance of a reference point.
	// Default: 20.
	LocationNear float64 `json:"location_near"`

	// LocationClose is awarded within CloseDistance. Default: 15.
	LocationClose float64 `json:"location_close"`

	// LocationScaledMin is the lower bound of the linear falloff that runs
	// from LocationClose down to the user's travel radius. Default: 10.
	LocationScaledMin float64 `json:"location_scaled_min"`

	// LocationFar is awarded beyond the travel radius. Distance alone
	// never disqualifies, so this is never zero. Default: 5.
	LocationFar float64 `json:"location_far"`

	// NearDistance is the "right there" radius in distance units.
	// Default: 0.5.
	NearDistance float64 `json:"near_distance"`

	// CloseDistance is the walkable radius in distance units. Default: 1.0.
	CloseDistance float64 `json:"close_distance"`

	// DefaultMaxDistance is the travel radius used when the stated profile
	// has none. Default: 5.0.
	DefaultMaxDistance float64 `json:"default_max_distance"`

	// LocationNeutral is awarded when no reference point exists at all.
	// Default: 10.
	LocationNeutral float64 `json:"location_neutral"`

	// TimeIdeal is awarded inside a category's ideal window. Default: 15.
	TimeIdeal float64 `json:"time_ideal"`

	// TimeSecondary is awarded inside a secondary window. Default: 10.
	TimeSecondary float64 `json:"time_secondary"`

	// TimeUnknown is awarded for categories with no defined windows.
	// Default: 8.
	TimeUnknown float64 `json:"time_unknown"`

	// TimeOffPeak is awarded outside all defined windows. Default: 5.
	TimeOffPeak float64 `json:"time_off_peak"`

	// FeedbackFavorite is awarded for learned favorite categories.
	// Default: 15.
	FeedbackFavorite float64 `json:"feedback_favorite"`

	// FeedbackNeutral is awarded when no learned signal exists. Default: 5.
	FeedbackNeutral float64 `json:"feedback_neutral"`

	// FeedbackPriceMatch is added when the candidate price tier matches
	// the learned price preference. Default: 3.
	FeedbackPriceMatch float64 `json:"feedback_price_match"`

	// FeedbackMax caps the feedback sub-score. Default: 15.
	FeedbackMax float64 `json:"feedback_max"`

	// CollaborativeDefault is the neutral cross-user score used when no
	// override is present. Default: 5.
	CollaborativeDefault float64 `json:"collaborative_default"`

	// CollaborativeMax bounds the collaborative sub-score and clamps any
	// externally supplied override. Default: 10.
	CollaborativeMax float64 `json:"collaborative_max"`
}

// SponsorConfig contains the paid-placement boost parameters.
type SponsorConfig struct {
	// BoostedMultiplier is the multiplier for the boosted tier.
	// Default: 1.15.
	BoostedMultiplier float64 `json:"boosted_multiplier"`

	// PremiumMultiplier is the multiplier for the premium tier.
	// Default: 1.30.
	PremiumMultiplier float64 `json:"premium_multiplier"`

	// LowRelevanceThreshold is the pre-boost total below which a candidate
	// counts as a poor organic match and the additive boost is capped.
	// This anti-spam rule is a hard invariant, not a tunable preference;
	// the value exists in config only so the budgets can be rescaled
	// together. Default: 40.
	LowRelevanceThreshold float64 `json:"low_relevance_threshold"`

	// AbsoluteBoostCap is the maximum points a poor organic match can gain
	// from any paid tier. Default: 10.
	AbsoluteBoostCap float64 `json:"absolute_boost_cap"`
}

// RulesConfig contains the business-rule selection parameters.
type RulesConfig struct {
	// SponsoredRatio is the maximum fraction of the final list that may be
	// sponsored; the cap is floor(ratio*k). Default: 0.4.
	SponsoredRatio float64 `json:"sponsored_ratio"`

	// DiversityFloor is the minimum number of distinct categories the
	// final list must contain whenever the input has at least that many.
	// Default: 3.
	DiversityFloor int `json:"diversity_floor"`

	// DefaultK is the list size when the request does not specify one.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MinK is the smallest permitted list size. Default: 5.
	MinK int `json:"min_k"`

	// MaxK is the largest permitted list size. Default: 50.
	MaxK int `json:"max_k"`
}

// LearningConfig contains the profile learner step sizes.
type LearningConfig struct {
	// DistanceStep is how far PreferredDistance moves per distance-related
	// feedback tag, in distance units. Default: 0.5.
	DistanceStep float64 `json:"distance_step"`

	// MinPreferredDistance is the floor for PreferredDistance. Default: 0.5.
	MinPreferredDistance float64 `json:"min_preferred_distance"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxCandidates is the maximum number of candidates scored per
	// request. Default: 500.
	MaxCandidates int `json:"max_candidates"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether response caching is active. Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live. Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses. Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with the documented production defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			BaseTopInterest:      40,
			BaseInterest:         30,
			BaseRelated:          20,
			BaseDefault:          10,
			TopInterestCount:     3,
			LocationNear:         20,
			LocationClose:        15,
			LocationScaledMin:    10,
			LocationFar:          5,
			NearDistance:         0.5,
			CloseDistance:        1.0,
			DefaultMaxDistance:   5.0,
			LocationNeutral:      10,
			TimeIdeal:            15,
			TimeSecondary:        10,
			TimeUnknown:          8,
			TimeOffPeak:          5,
			FeedbackFavorite:     15,
			FeedbackNeutral:      5,
			FeedbackPriceMatch:   3,
			FeedbackMax:          15,
			CollaborativeDefault: 5,
			CollaborativeMax:     10,
		},
		Sponsor: SponsorConfig{
			BoostedMultiplier:     1.15,
			PremiumMultiplier:     1.30,
			LowRelevanceThreshold: 40,
			AbsoluteBoostCap:      10,
		},
		Rules: RulesConfig{
			SponsoredRatio: 0.4,
			DiversityFloor: 3,
			DefaultK:       10,
			MinK:           5,
			MaxK:           50,
		},
		Learning: LearningConfig{
			DistanceStep:         0.5,
			MinPreferredDistance: 0.5,
		},
		Limits: LimitsConfig{
			MaxCandidates: 500,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	s := c.Scoring
	if s.BaseTopInterest < s.BaseInterest || s.BaseInterest < s.BaseRelated || s.BaseRelated < s.BaseDefault {
		return fmt.Errorf("scoring: base budgets must be ordered top >= interest >= related >= default")
	}
	if s.BaseDefault <= 0 {
		return fmt.Errorf("scoring.base_default must be positive, got %f", s.BaseDefault)
	}
	if s.TopInterestCount < 1 {
		return fmt.Errorf("scoring.top_interest_count must be positive, got %d", s.TopInterestCount)
	}
	if s.NearDistance <= 0 || s.CloseDistance <= s.NearDistance {
		return fmt.Errorf("scoring: need 0 < near_distance < close_distance, got %f/%f", s.NearDistance, s.CloseDistance)
	}
	if s.DefaultMaxDistance <= s.CloseDistance {
		return fmt.Errorf("scoring.default_max_distance must exceed close_distance, got %f", s.DefaultMaxDistance)
	}
	if s.LocationFar <= 0 {
		return fmt.Errorf("scoring.location_far must be positive (distance never disqualifies), got %f", s.LocationFar)
	}
	if s.LocationScaledMin > s.LocationClose {
		return fmt.Errorf("scoring.location_scaled_min must not exceed location_close")
	}
	if s.TimeOffPeak <= 0 || s.TimeIdeal < s.TimeSecondary || s.TimeSecondary < s.TimeUnknown || s.TimeUnknown < s.TimeOffPeak {
		return fmt.Errorf("scoring: time budgets must be ordered ideal >= secondary >= unknown >= off_peak > 0")
	}
	if s.FeedbackMax < s.FeedbackFavorite {
		return fmt.Errorf("scoring.feedback_max must be >= feedback_favorite")
	}
	if s.CollaborativeDefault < 0 || s.CollaborativeDefault > s.CollaborativeMax {
		return fmt.Errorf("scoring.collaborative_default must be in [0, collaborative_max]")
	}

	sp := c.Sponsor
	if sp.BoostedMultiplier < 1 || sp.PremiumMultiplier < sp.BoostedMultiplier {
		return fmt.Errorf("sponsor: multipliers must satisfy 1 <= boosted <= premium, got %f/%f",
			sp.BoostedMultiplier, sp.PremiumMultiplier)
	}
	if sp.AbsoluteBoostCap < 0 {
		return fmt.Errorf("sponsor.absolute_boost_cap must be non-negative, got %f", sp.AbsoluteBoostCap)
	}
	if sp.LowRelevanceThreshold < 0 {
		return fmt.Errorf("sponsor.low_relevance_threshold must be non-negative, got %f", sp.LowRelevanceThreshold)
	}

	r := c.Rules
	if r.SponsoredRatio < 0 || r.SponsoredRatio > 1 {
		return fmt.Errorf("rules.sponsored_ratio must be in [0, 1], got %f", r.SponsoredRatio)
	}
	if r.DiversityFloor < 1 {
		return fmt.Errorf("rules.diversity_floor must be positive, got %d", r.DiversityFloor)
	}
	if r.MinK < 1 || r.DefaultK < r.MinK || r.MaxK < r.DefaultK {
		return fmt.Errorf("rules: need 1 <= min_k <= default_k <= max_k, got %d/%d/%d", r.MinK, r.DefaultK, r.MaxK)
	}

	l := c.Learning
	if l.DistanceStep <= 0 {
		return fmt.Errorf("learning.distance_step must be positive, got %f", l.DistanceStep)
	}
	if l.MinPreferredDistance <= 0 {
		return fmt.Errorf("learning.min_preferred_distance must be positive, got %f", l.MinPreferredDistance)
	}

	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	out := *c
	return &out
}

// Multiplier returns the configured multiplier for a sponsor tier.
func (sp SponsorConfig) Multiplier(tier SponsorTier) float64 {
	switch tier {
	case TierBoosted:
		return sp.BoostedMultiplier
	case TierPremium:
		return sp.PremiumMultiplier
	default:
		return 1.0
	}
}
