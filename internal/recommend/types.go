// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import (
	"context"
	"sort"
	"strings"
	"time"
)

// SponsorTier classifies the paid-placement level of a candidate.
type SponsorTier int

const (
	// TierOrganic indicates an unpaid listing.
	TierOrganic SponsorTier = iota
	// TierBoosted indicates the entry paid-placement level.
	TierBoosted
	// TierPremium indicates the top paid-placement level.
	TierPremium
)

// String returns a human-readable name for the sponsor tier.
func (t SponsorTier) String() string {
	switch t {
	case TierOrganic:
		return "organic"
	case TierBoosted:
		return "boosted"
	case TierPremium:
		return "premium"
	default:
		return "unknown"
	}
}

// Sponsored reports whether the tier is a paid placement.
func (t SponsorTier) Sponsored() bool {
	return t != TierOrganic
}

// ParseSponsorTier converts a wire string to a SponsorTier.
// Unrecognized values map to TierOrganic.
func ParseSponsorTier(s string) SponsorTier {
	switch strings.ToLower(s) {
	case "boosted":
		return TierBoosted
	case "premium":
		return TierPremium
	default:
		return TierOrganic
	}
}

// PriceTierUnknown marks a candidate with no price information.
const PriceTierUnknown = -1

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OpenSpan is one contiguous open interval in a candidate's weekly schedule.
// Hours are 0-23; a Close before Open wraps past midnight.
type OpenSpan struct {
	Day   time.Weekday `json:"day"`
	Open  int          `json:"open"`
	Close int          `json:"close"`
}

// Candidate is a potential activity to recommend. Candidates are created by
// the external retrieval collaborator per request and are immutable for the
// duration of one scoring pass; this core never persists them.
type Candidate struct {
	// ID is the opaque external identifier, unique per provider.
	ID string `json:"id"`

	// BusinessID groups candidates belonging to the same real-world
	// business. Empty when unknown.
	BusinessID string `json:"business_id,omitempty"`

	// Category is an enum-like string from the venue taxonomy.
	Category string `json:"category"`

	// Location is the venue position.
	Location Coordinates `json:"location"`

	// Rating is the aggregate rating (0.0-5.0). Zero when unknown.
	Rating float64 `json:"rating,omitempty"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `json:"review_count,omitempty"`

	// PriceTier is 0 (free) through 3 (expensive), or PriceTierUnknown.
	PriceTier int `json:"price_tier"`

	// Hours is the optional open/close schedule.
	Hours []OpenSpan `json:"hours,omitempty"`

	// SponsorTier is the paid-placement level.
	SponsorTier SponsorTier `json:"sponsor_tier"`
}

// TimeBucket is a coarse time-of-day preference bucket.
type TimeBucket string

const (
	// BucketMorning covers roughly 06:00-11:00.
	BucketMorning TimeBucket = "morning"
	// BucketAfternoon covers roughly 11:00-17:00.
	BucketAfternoon TimeBucket = "afternoon"
	// BucketEvening covers roughly 17:00-22:00.
	BucketEvening TimeBucket = "evening"
	// BucketLate covers roughly 22:00-02:00.
	BucketLate TimeBucket = "late"
)

// UserProfile holds the user's stated preferences. It is owned by the
// external identity collaborator and is a read-only input here.
type UserProfile struct {
	// Interests is the stated category list, in preference order when the
	// user ranked them. Size 0-10.
	Interests []string `json:"interests"`

	// HomeLocation is the user's home coordinates, if shared.
	HomeLocation *Coordinates `json:"home_location,omitempty"`

	// WorkLocation is the user's work coordinates, if shared.
	WorkLocation *Coordinates `json:"work_location,omitempty"`

	// MaxDistance is the stated travel radius in distance units.
	// Zero means unset.
	MaxDistance float64 `json:"max_distance,omitempty"`

	// BudgetLevel is the stated budget, 0 (free) through 3 (expensive).
	BudgetLevel int `json:"budget_level,omitempty"`

	// PreferredTimes is the set of preferred time-of-day buckets.
	PreferredTimes []TimeBucket `json:"preferred_times,omitempty"`
}

// PriceSensitivity is the learned sensitivity to price, ordered low to high.
type PriceSensitivity int

const (
	// PriceSensitivityLow means price rarely matters to this user.
	PriceSensitivityLow PriceSensitivity = iota
	// PriceSensitivityMedium is the default.
	PriceSensitivityMedium
	// PriceSensitivityHigh means the user reacts strongly to price.
	PriceSensitivityHigh
)

// String returns a human-readable name for the sensitivity level.
func (p PriceSensitivity) String() string {
	switch p {
	case PriceSensitivityLow:
		return "low"
	case PriceSensitivityMedium:
		return "medium"
	case PriceSensitivityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// DistanceTolerance is the learned willingness to travel, ordered low to high.
type DistanceTolerance int

const (
	// ToleranceLow means the user prefers nearby venues.
	ToleranceLow DistanceTolerance = iota
	// ToleranceMedium is the default.
	ToleranceMedium
	// ToleranceHigh means the user will travel for the right venue.
	ToleranceHigh
)

// String returns a human-readable name for the tolerance level.
func (d DistanceTolerance) String() string {
	switch d {
	case ToleranceLow:
		return "low"
	case ToleranceMedium:
		return "medium"
	case ToleranceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// AIProfile is the learned preference record, distinct from the stated
// profile. It is the only entity this core mutates, and only through the
// profile learner. Category membership is exclusive: a category never
// appears in both FavoriteCategories and DislikedCategories.
type AIProfile struct {
	// FavoriteCategories are categories with positive feedback signal.
	// Kept sorted for deterministic serialization.
	FavoriteCategories []string `json:"favorite_categories"`

	// DislikedCategories are categories with negative feedback signal.
	DislikedCategories []string `json:"disliked_categories"`

	// PriceSensitivity is the learned sensitivity to price.
	PriceSensitivity PriceSensitivity `json:"price_sensitivity"`

	// PreferredDistance is the learned comfortable travel distance in
	// distance units.
	PreferredDistance float64 `json:"preferred_distance"`

	// DistanceTolerance is the learned willingness to travel.
	DistanceTolerance DistanceTolerance `json:"distance_tolerance"`

	// QuietSignals counts "too crowded" feedback. Tracked for a future
	// quiet-venue preference; it has no scoring effect today.
	QuietSignals int `json:"quiet_signals,omitempty"`
}

// DefaultAIProfile returns the profile a user starts with before any
// feedback has been observed.
func DefaultAIProfile() AIProfile {
	return AIProfile{
		FavoriteCategories: []string{},
		DislikedCategories: []string{},
		PriceSensitivity:   PriceSensitivityMedium,
		PreferredDistance:  2.0,
		DistanceTolerance:  ToleranceMedium,
	}
}

// IsFavorite reports whether the category carries positive learned signal.
func (p AIProfile) IsFavorite(category string) bool {
	return containsFold(p.FavoriteCategories, category)
}

// IsDisliked reports whether the category carries negative learned signal.
func (p AIProfile) IsDisliked(category string) bool {
	return containsFold(p.DislikedCategories, category)
}

// Clone returns a deep copy of the profile.
func (p AIProfile) Clone() AIProfile {
	out := p
	out.FavoriteCategories = append([]string(nil), p.FavoriteCategories...)
	out.DislikedCategories = append([]string(nil), p.DislikedCategories...)
	return out
}

// Rating is a binary feedback polarity.
type Rating int

const (
	// RatingPositive indicates the user liked the activity.
	RatingPositive Rating = iota
	// RatingNegative indicates the user did not.
	RatingNegative
)

// String returns a human-readable name for the rating.
func (r Rating) String() string {
	switch r {
	case RatingPositive:
		return "positive"
	case RatingNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// FeedbackEvent is one user reaction to one completed activity. It is
// created once, is immutable, and must be consumed exactly once by the
// profile learner; the capture collaborator upholds that contract.
type FeedbackEvent struct {
	// EventID uniquely identifies the event for tracing.
	EventID string `json:"event_id,omitempty"`

	// UserID identifies the profile the event applies to.
	UserID string `json:"user_id" validate:"required"`

	// Category is copied from the candidate at feedback time, not looked
	// up later. It is not restricted to the known taxonomy.
	Category string `json:"category" validate:"required"`

	// PriceTier is copied from the candidate, or PriceTierUnknown.
	PriceTier int `json:"price_tier"`

	// Rating is the feedback polarity.
	Rating Rating `json:"rating"`

	// Tags are qualifier strings such as "too far" or "great value".
	// Unknown tags are ignored.
	Tags []string `json:"tags,omitempty"`

	// OccurredAt is when the feedback was submitted.
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// ScoreBreakdown is the computed, ephemeral score for one candidate in one
// request. Final = min-capped sum of the sub-scores times the sponsor
// multiplier; the boost applier owns that invariant.
type ScoreBreakdown struct {
	// Base is the interest-match component.
	Base float64 `json:"base"`

	// Location is the proximity component.
	Location float64 `json:"location"`

	// Time is the time-of-day fit component.
	Time float64 `json:"time"`

	// Feedback is the learned-profile component.
	Feedback float64 `json:"feedback"`

	// Collaborative is the cross-user similarity component, a neutral
	// constant unless the request context carries an override.
	Collaborative float64 `json:"collaborative"`

	// SponsorMultiplier is 1.0, or the configured boosted/premium factor.
	SponsorMultiplier float64 `json:"sponsor_multiplier"`

	// Final is the post-boost score used for ranking.
	Final float64 `json:"final"`

	// Distance is the distance in units to the reference point used by
	// the location sub-score, or -1 when no reference was available.
	// Carried for explanation rendering; not part of the score contract.
	Distance float64 `json:"distance_units,omitempty"`
}

// BaseTotal is the sub-score sum before the sponsor multiplier.
func (b ScoreBreakdown) BaseTotal() float64 {
	return b.Base + b.Location + b.Time + b.Feedback + b.Collaborative
}

// Recommendation is the final output unit: a candidate, its score, a
// human-readable justification, and the sponsored flag.
type Recommendation struct {
	Candidate   Candidate      `json:"candidate"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Explanation string         `json:"explanation,omitempty"`
	IsSponsored bool           `json:"is_sponsored"`
}

// RequestContext carries per-request situational inputs for scoring.
type RequestContext struct {
	// Now is the target time for the recommendation. The zero value means
	// "current time" and is resolved by the engine before scoring.
	Now time.Time `json:"now,omitempty"`

	// CollaborativeOverride is an externally supplied cross-user
	// similarity score, clamped to the configured collaborative budget.
	// Nil means no signal; the neutral default applies.
	CollaborativeOverride *float64 `json:"collaborative_override,omitempty"`
}

// Request is one recommendation request.
type Request struct {
	// UserID identifies whose profiles to score against.
	UserID string `json:"user_id"`

	// K is the number of recommendations to return. Zero means the
	// configured default; values are clamped to the configured bounds.
	K int `json:"k,omitempty"`

	// Candidates optionally supplies the candidate list inline. When
	// empty, the engine fetches from its CandidateSource.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Profile optionally supplies the stated profile inline, bypassing
	// the ProfileStore.
	Profile *UserProfile `json:"profile,omitempty"`

	// AIProfile optionally supplies the learned profile inline.
	AIProfile *AIProfile `json:"ai_profile,omitempty"`

	// Context carries situational inputs.
	Context RequestContext `json:"context,omitempty"`

	// RequestID is a unique identifier for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID       string    `json:"request_id"`
	UserID          string    `json:"user_id"`
	TotalCandidates int       `json:"total_candidates"`
	Selected        int       `json:"selected"`
	LatencyMS       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Timestamp       time.Time `json:"timestamp"`
}

// Response is one recommendation response. An empty Recommendations slice is
// a valid terminal state ("no recommendations available"), not an error.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// Scorer computes a ScoreBreakdown for one candidate. Implementations must
// be pure and total: well-formed input never raises, and missing optional
// candidate fields degrade to documented neutral defaults.
type Scorer interface {
	// Name returns the scorer identifier.
	Name() string

	// Score computes the sub-scores for a candidate. The returned
	// breakdown has SponsorMultiplier/Final unset; the boost applier
	// fills them in.
	Score(candidate Candidate, user UserProfile, learned AIProfile, rctx RequestContext) ScoreBreakdown
}

// Selector applies business rules to the scored list and picks the final
// ordered subset. Implementations must be deterministic given a fixed input
// ordering.
type Selector interface {
	// Name returns the selector identifier.
	Name() string

	// Select returns up to k recommendations honoring the business rules.
	Select(ctx context.Context, scored []Recommendation, k int) []Recommendation
}

// Explainer renders a short human-readable justification for a selected
// recommendation. Implementations must be pure, deterministic, and must not
// surface raw numeric scores.
type Explainer interface {
	// Name returns the explainer identifier.
	Name() string

	// Explain returns the justification string.
	Explain(rec Recommendation) string
}

// Learner applies one feedback event to a learned profile, returning the
// updated profile. Implementations are pure; the caller persists the result.
type Learner interface {
	// Name returns the learner identifier.
	Name() string

	// Apply performs one profile transition. It never rejects a
	// well-formed event; unknown tags are ignored.
	Apply(profile AIProfile, event FeedbackEvent) AIProfile
}

// CandidateSource supplies candidates for a request. Implemented by the
// external retrieval collaborator. Candidates are deduplicated at the ID
// level but not necessarily at the business level.
type CandidateSource interface {
	// GetCandidates returns up to limit candidates for the user.
	GetCandidates(ctx context.Context, userID string, limit int) ([]Candidate, error)
}

// ProfileStore supplies and persists user profiles. Implemented by the
// external persistence collaborator, which must guarantee at most one
// concurrent writer per user for the learned profile.
type ProfileStore interface {
	// GetUserProfile returns the stated profile.
	GetUserProfile(ctx context.Context, userID string) (UserProfile, error)

	// GetAIProfile returns the learned profile.
	GetAIProfile(ctx context.Context, userID string) (AIProfile, error)

	// SaveAIProfile persists an updated learned profile.
	SaveAIProfile(ctx context.Context, userID string, profile AIProfile) error
}

// NormalizeCategory canonicalizes a category string for set membership and
// taxonomy lookups.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// SortedCategorySet normalizes, deduplicates, and sorts a category list.
func SortedCategorySet(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		n := NormalizeCategory(c)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// containsFold reports whether the normalized category is in the set.
func containsFold(set []string, category string) bool {
	n := NormalizeCategory(category)
	for _, c := range set {
		if c == n {
			return true
		}
	}
	return false
}
