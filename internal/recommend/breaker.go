// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Collaborator calls cross a process or network boundary in production, so
// the decorators here wrap CandidateSource and ProfileStore with a circuit
// breaker. A tripped breaker fails fast instead of stacking up slow calls
// behind a degraded collaborator.

// BreakerSettings tunes the collaborator circuit breakers.
type BreakerSettings struct {
	// MaxRequests is the number of probe requests allowed half-open.
	// Default: 3.
	MaxRequests uint32 `json:"max_requests"`

	// Interval is the cyclic period for clearing counts while closed.
	// Default: 60s.
	Interval time.Duration `json:"interval"`

	// Timeout is how long the breaker stays open before probing.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`

	// ConsecutiveFailures trips the breaker when exceeded. Default: 5.
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// DefaultBreakerSettings returns production defaults.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker[T any](name string, s BreakerSettings, logger zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = 60 * time.Second
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
}

// BreakerSource wraps a CandidateSource with a circuit breaker.
type BreakerSource struct {
	inner CandidateSource
	cb    *gobreaker.CircuitBreaker[[]Candidate]
}

// NewBreakerSource decorates the candidate retrieval collaborator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerSource(inner CandidateSource, s BreakerSettings, logger zerolog.Logger) *BreakerSource {
	return &BreakerSource{
		inner: inner,
		cb:    newBreaker[[]Candidate]("candidate-source", s, logger),
	}
}

// GetCandidates implements CandidateSource.
func (b *BreakerSource) GetCandidates(ctx context.Context, userID string, limit int) ([]Candidate, error) {
	return b.cb.Execute(func() ([]Candidate, error) {
		return b.inner.GetCandidates(ctx, userID, limit)
	})
}

// BreakerProfileStore wraps a ProfileStore with circuit breakers. Reads and
// writes share one breaker: the store is a single collaborator, and a
// degraded write path degrades reads too.
type BreakerProfileStore struct {
	inner ProfileStore
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerProfileStore decorates the profile collaborator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerProfileStore(inner ProfileStore, s BreakerSettings, logger zerolog.Logger) *BreakerProfileStore {
	return &BreakerProfileStore{
		inner: inner,
		cb:    newBreaker[any]("profile-store", s, logger),
	}
}

// GetUserProfile implements ProfileStore.
func (b *BreakerProfileStore) GetUserProfile(ctx context.Context, userID string) (UserProfile, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.GetUserProfile(ctx, userID)
	})
	if err != nil {
		return UserProfile{}, err
	}
	return v.(UserProfile), nil
}

// GetAIProfile implements ProfileStore.
func (b *BreakerProfileStore) GetAIProfile(ctx context.Context, userID string) (AIProfile, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.GetAIProfile(ctx, userID)
	})
	if err != nil {
		return AIProfile{}, err
	}
	return v.(AIProfile), nil
}

// SaveAIProfile implements ProfileStore.
func (b *BreakerProfileStore) SaveAIProfile(ctx context.Context, userID string, profile AIProfile) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.SaveAIProfile(ctx, userID, profile)
	})
	return err
}

// Interface compliance.
var (
	_ CandidateSource = (*BreakerSource)(nil)
	_ ProfileStore    = (*BreakerProfileStore)(nil)
)
