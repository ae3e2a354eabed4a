// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/metrics"
)

// Engine coordinates the scoring pipeline and produces final
// recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Pipeline stages, wired by the caller
	scorer    Scorer
	selector  Selector
	explainer Explainer
	learner   Learner
	boost     *BoostApplier
	stageMu   sync.RWMutex

	// External collaborators
	source   CandidateSource
	profiles ProfileStore

	// Counters
	requestCount  atomic.Int64
	feedbackCount atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64

	// Response cache (bounded, TTL)
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	// Random source for request-ID jitter (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// cacheEntry holds a cached recommendation response.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// EngineMetrics is a snapshot of engine counters for observability.
type EngineMetrics struct {
	RequestCount  int64 `json:"request_count"`
	FeedbackCount int64 `json:"feedback_count"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	ErrorCount    int64 `json:"error_count"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		boost:  NewBoostApplier(cfg.Sponsor),
		cache:  make(map[string]cacheEntry),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // request-ID jitter only
	}, nil
}

// SetScorer installs the score calculator stage.
func (e *Engine) SetScorer(s Scorer) {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	e.scorer = s
	e.logger.Info().Str("scorer", s.Name()).Msg("registered scorer")
}

// SetSelector installs the business-rule selection stage.
func (e *Engine) SetSelector(s Selector) {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	e.selector = s
	e.logger.Info().Str("selector", s.Name()).Msg("registered selector")
}

// SetExplainer installs the explanation stage.
func (e *Engine) SetExplainer(x Explainer) {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	e.explainer = x
	e.logger.Info().Str("explainer", x.Name()).Msg("registered explainer")
}

// SetLearner installs the profile learner used by ApplyFeedback.
func (e *Engine) SetLearner(l Learner) {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	e.learner = l
	e.logger.Info().Str("learner", l.Name()).Msg("registered learner")
}

// SetCandidateSource sets the external retrieval collaborator.
func (e *Engine) SetCandidateSource(src CandidateSource) {
	e.source = src
}

// SetProfileStore sets the external profile collaborator.
func (e *Engine) SetProfileStore(ps ProfileStore) {
	e.profiles = ps
}

// Recommend generates recommendations for a user. An empty candidate list
// produces an empty, non-error response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Int("k", req.K).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	scorer, selector, explainer := e.stages()
	if scorer == nil || selector == nil || explainer == nil {
		e.errorCount.Add(1)
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pipeline incomplete: scorer, selector, and explainer must be registered")
	}

	cacheable := len(req.Candidates) == 0 && req.Profile == nil && req.AIProfile == nil
	if cacheable {
		if resp := e.checkCache(e.cacheKey(req)); resp != nil {
			e.cacheHits.Add(1)
			metrics.RecommendRequests.WithLabelValues("cache_hit").Inc()
			metrics.RecommendLatency.Observe(time.Since(start).Seconds())
			resp.Metadata.CacheHit = true
			resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
			logger.Debug().Msg("cache hit")
			return resp, nil
		}
		e.cacheMisses.Add(1)
	}

	user, learned, err := e.loadProfiles(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	candidates, err := e.loadCandidates(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get candidates: %w", err)
	}
	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		metrics.RecommendRequests.WithLabelValues("empty").Inc()
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
		return e.emptyResponse(req, start), nil
	}

	scored := e.scoreCandidates(scorer, candidates, user, learned, req.Context)
	metrics.CandidatesScored.Observe(float64(len(candidates)))
	selected := selector.Select(ctx, scored, req.K)
	for i := range selected {
		selected[i].Explanation = explainer.Explain(selected[i])
	}

	resp := &Response{
		Recommendations: selected,
		Metadata: ResponseMetadata{
			RequestID:       req.RequestID,
			UserID:          req.UserID,
			TotalCandidates: len(candidates),
			Selected:        len(selected),
			LatencyMS:       time.Since(start).Milliseconds(),
			Timestamp:       time.Now(),
		},
	}
	if cacheable {
		e.storeCache(e.cacheKey(req), resp)
	}

	metrics.RecommendRequests.WithLabelValues("ok").Inc()
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(selected)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// ApplyFeedback performs one profile-learner transition: load the learned
// profile, apply the event, persist the result. The caller guarantees each
// event is delivered exactly once and per-user delivery is serialized.
func (e *Engine) ApplyFeedback(ctx context.Context, event FeedbackEvent) error {
	e.feedbackCount.Add(1)

	e.stageMu.RLock()
	learner := e.learner
	e.stageMu.RUnlock()
	if learner == nil {
		return fmt.Errorf("learner not registered")
	}
	if e.profiles == nil {
		return fmt.Errorf("profile store not set")
	}

	profile, err := e.profiles.GetAIProfile(ctx, event.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return fmt.Errorf("get learned profile: %w", err)
	}

	updated := learner.Apply(profile, event)
	if err := e.profiles.SaveAIProfile(ctx, event.UserID, updated); err != nil {
		e.errorCount.Add(1)
		return fmt.Errorf("save learned profile: %w", err)
	}

	e.logger.Debug().
		Str("user_id", event.UserID).
		Str("category", event.Category).
		Str("rating", event.Rating.String()).
		Msg("feedback applied")

	// Learned profiles feed scoring; cached responses are now stale.
	e.invalidateUser(event.UserID)
	return nil
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() EngineMetrics {
	return EngineMetrics{
		RequestCount:  e.requestCount.Load(),
		FeedbackCount: e.feedbackCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		ErrorCount:    e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = e.generateRequestID()
	}

	switch {
	case req.K == 0:
		req.K = e.config.Rules.DefaultK
	case req.K < e.config.Rules.MinK:
		req.K = e.config.Rules.MinK
	case req.K > e.config.Rules.MaxK:
		req.K = e.config.Rules.MaxK
	}

	if req.Context.Now.IsZero() {
		req.Context.Now = time.Now()
	}

	return req
}

// stages returns the wired pipeline stages.
func (e *Engine) stages() (Scorer, Selector, Explainer) {
	e.stageMu.RLock()
	defer e.stageMu.RUnlock()
	return e.scorer, e.selector, e.explainer
}

// loadProfiles resolves the stated and learned profiles, preferring inline
// request values over the store. Without either, neutral defaults apply so
// scoring stays total.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) loadProfiles(ctx context.Context, req Request) (UserProfile, AIProfile, error) {
	var user UserProfile
	learned := DefaultAIProfile()

	switch {
	case req.Profile != nil:
		user = *req.Profile
	case e.profiles != nil:
		p, err := e.profiles.GetUserProfile(ctx, req.UserID)
		if err != nil {
			return user, learned, fmt.Errorf("get user profile: %w", err)
		}
		user = p
	}

	switch {
	case req.AIProfile != nil:
		learned = *req.AIProfile
	case e.profiles != nil:
		p, err := e.profiles.GetAIProfile(ctx, req.UserID)
		if err != nil {
			return user, learned, fmt.Errorf("get learned profile: %w", err)
		}
		learned = p
	}

	return user, learned, nil
}

// loadCandidates returns the inline candidate list or fetches from the
// source, bounded by the configured limit.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) loadCandidates(ctx context.Context, req Request) ([]Candidate, error) {
	if len(req.Candidates) > 0 {
		if len(req.Candidates) > e.config.Limits.MaxCandidates {
			return req.Candidates[:e.config.Limits.MaxCandidates], nil
		}
		return req.Candidates, nil
	}

	if e.source == nil {
		return nil, fmt.Errorf("candidate source not set")
	}
	return e.source.GetCandidates(ctx, req.UserID, e.config.Limits.MaxCandidates)
}

// scoreCandidates runs the scorer and boost applier over the candidates.
// Per-candidate scoring has no shared mutable state; the sequential loop is
// an implementation choice, not a correctness requirement.
func (e *Engine) scoreCandidates(scorer Scorer, candidates []Candidate, user UserProfile, learned AIProfile, rctx RequestContext) []Recommendation {
	scored := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		b := scorer.Score(candidates[i], user, learned, rctx)
		b = e.boost.Apply(b, candidates[i].SponsorTier)
		scored = append(scored, Recommendation{
			Candidate:   candidates[i],
			Breakdown:   b,
			IsSponsored: candidates[i].SponsorTier.Sponsored(),
		})
	}
	return scored
}

// cacheKey generates a cache key for a request. Responses are time-of-day
// sensitive, so the target hour participates in the key.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	return fmt.Sprintf("rec:%s:%d:%d", req.UserID, req.K, req.Context.Now.Hour())
}

// checkCache returns a copy of a valid cached response, or nil.
func (e *Engine) checkCache(key string) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	recs := make([]Recommendation, len(entry.response.Recommendations))
	copy(recs, entry.response.Recommendations)
	return &Response{
		Recommendations: recs,
		Metadata:        entry.response.Metadata,
	}
}

// storeCache stores a response, evicting expired entries at capacity.
func (e *Engine) storeCache(key string, resp *Response) {
	if !e.config.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		now := time.Now()
		for k, entry := range e.cache {
			if now.After(entry.expiresAt) {
				delete(e.cache, k)
			}
		}
	}

	e.cache[key] = cacheEntry{
		response:  resp,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// invalidateUser drops cached responses for one user.
func (e *Engine) invalidateUser(userID string) {
	if !e.config.Cache.Enabled {
		return
	}

	prefix := fmt.Sprintf("rec:%s:", userID)
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	for k := range e.cache {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(e.cache, k)
		}
	}
}

// emptyResponse returns the valid terminal state for zero candidates.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Recommendations: []Recommendation{},
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			UserID:    req.UserID,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}
}

// generateRequestID generates a unique request ID for tracing.
// This method is safe for concurrent use.
func (e *Engine) generateRequestID() string {
	e.rngMu.Lock()
	n := e.rng.Intn(10000)
	e.rngMu.Unlock()
	return fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), n)
}
