// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/metrics"
)

// mockScorer returns a fixed base breakdown per candidate ID, defaulting
// to a mid-range score.
type mockScorer struct {
	scores map[string]float64
}

func (m *mockScorer) Name() string { return "mock-scorer" }

func (m *mockScorer) Score(candidate Candidate, _ UserProfile, _ AIProfile, _ RequestContext) ScoreBreakdown {
	base := 30.0
	if s, ok := m.scores[candidate.ID]; ok {
		base = s
	}
	return ScoreBreakdown{Base: base, Location: 10, Time: 8, Feedback: 5, Collaborative: 5}
}

// mockSelector sorts by final score and truncates to k.
type mockSelector struct{}

func (m *mockSelector) Name() string { return "mock-selector" }

func (m *mockSelector) Select(_ context.Context, scored []Recommendation, k int) []Recommendation {
	out := make([]Recommendation, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Breakdown.Final > out[j].Breakdown.Final
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// mockExplainer returns a canned explanation.
type mockExplainer struct{}

func (m *mockExplainer) Name() string { return "mock-explainer" }

func (m *mockExplainer) Explain(rec Recommendation) string {
	return "because " + rec.Candidate.ID
}

// mockLearner appends the category to favorites on every event.
type mockLearner struct {
	applied int
}

func (m *mockLearner) Name() string { return "mock-learner" }

func (m *mockLearner) Apply(profile AIProfile, event FeedbackEvent) AIProfile {
	m.applied++
	out := profile.Clone()
	out.FavoriteCategories = append(out.FavoriteCategories, NormalizeCategory(event.Category))
	return out
}

// mockSource returns a fixed candidate list, counting calls.
type mockSource struct {
	candidates []Candidate
	err        error
	calls      int
}

func (m *mockSource) GetCandidates(_ context.Context, _ string, _ int) ([]Candidate, error) {
	m.calls++
	return m.candidates, m.err
}

// mockProfiles is an in-memory profile store.
type mockProfiles struct {
	stated   map[string]UserProfile
	learned  map[string]AIProfile
	getErr   error
	saveErr  error
	saved    int
	getCalls int
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{
		stated:  make(map[string]UserProfile),
		learned: make(map[string]AIProfile),
	}
}

func (m *mockProfiles) GetUserProfile(_ context.Context, userID string) (UserProfile, error) {
	if m.getErr != nil {
		return UserProfile{}, m.getErr
	}
	return m.stated[userID], nil
}

func (m *mockProfiles) GetAIProfile(_ context.Context, userID string) (AIProfile, error) {
	m.getCalls++
	if m.getErr != nil {
		return AIProfile{}, m.getErr
	}
	if p, ok := m.learned[userID]; ok {
		return p, nil
	}
	return DefaultAIProfile(), nil
}

func (m *mockProfiles) SaveAIProfile(_ context.Context, userID string, profile AIProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	m.learned[userID] = profile
	return nil
}

func newWiredEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	e.SetScorer(&mockScorer{})
	e.SetSelector(&mockSelector{})
	e.SetExplainer(&mockExplainer{})
	return e
}

func testCandidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			ID:          fmt.Sprintf("c%03d", i),
			BusinessID:  fmt.Sprintf("b%03d", i),
			Category:    "coffee",
			SponsorTier: TierOrganic,
		}
	}
	return out
}

func TestNewEngineNilConfig(t *testing.T) {
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine(nil) error: %v", err)
	}
	if e.GetConfig().Rules.DefaultK != 10 {
		t.Error("nil config did not fall back to defaults")
	}
}

func TestNewEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.SponsoredRatio = 1.5
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() with invalid config did not error")
	}
}

func TestRecommendPipelineIncomplete(t *testing.T) {
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	e.SetScorer(&mockScorer{})

	_, err = e.Recommend(context.Background(), Request{UserID: "u1"})
	if err == nil {
		t.Error("Recommend() with incomplete pipeline did not error")
	}
}

func TestRecommendInlineCandidates(t *testing.T) {
	e := newWiredEngine(t, nil)
	src := &mockSource{candidates: testCandidates(3)}
	e.SetCandidateSource(src)

	req := Request{
		UserID:     "u1",
		K:          5,
		Candidates: testCandidates(8),
	}
	resp, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if src.calls != 0 {
		t.Error("source consulted despite inline candidates")
	}
	if resp.Metadata.TotalCandidates != 8 {
		t.Errorf("TotalCandidates = %d, want 8", resp.Metadata.TotalCandidates)
	}
	if len(resp.Recommendations) != 5 {
		t.Errorf("got %d recommendations, want 5", len(resp.Recommendations))
	}
	for _, r := range resp.Recommendations {
		if r.Explanation == "" {
			t.Error("missing explanation")
		}
	}
}

func TestRecommendInlineCandidatesTruncated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxCandidates = 10
	e := newWiredEngine(t, cfg)

	req := Request{UserID: "u1", K: 5, Candidates: testCandidates(50)}
	resp, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if resp.Metadata.TotalCandidates != 10 {
		t.Errorf("TotalCandidates = %d, want 10", resp.Metadata.TotalCandidates)
	}
}

func TestRecommendFromSource(t *testing.T) {
	e := newWiredEngine(t, nil)
	src := &mockSource{candidates: testCandidates(6)}
	e.SetCandidateSource(src)

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 5})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
	if len(resp.Recommendations) != 5 {
		t.Errorf("got %d recommendations, want 5", len(resp.Recommendations))
	}
}

func TestRecommendNoSource(t *testing.T) {
	e := newWiredEngine(t, nil)
	if _, err := e.Recommend(context.Background(), Request{UserID: "u1"}); err == nil {
		t.Error("Recommend() without source or inline candidates did not error")
	}
}

func TestRecommendSourceError(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetCandidateSource(&mockSource{err: errors.New("backend down")})

	if _, err := e.Recommend(context.Background(), Request{UserID: "u1"}); err == nil {
		t.Error("Recommend() did not propagate source error")
	}
	if e.GetMetrics().ErrorCount == 0 {
		t.Error("error counter not incremented")
	}
}

func TestRecommendEmptyCandidates(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetCandidateSource(&mockSource{})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if resp.Recommendations == nil || len(resp.Recommendations) != 0 {
		t.Errorf("got %v, want empty non-nil slice", resp.Recommendations)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("empty response missing request ID")
	}
}

func TestRecommendKClamping(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetCandidateSource(&mockSource{candidates: testCandidates(60)})

	tests := []struct {
		name  string
		k     int
		wantK int
	}{
		{"zero_default", 0, 10},
		{"below_min", 1, 5},
		{"above_max", 100, 50},
		{"in_range", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), Request{
				UserID:     fmt.Sprintf("user-%s", tt.name),
				K:          tt.k,
				Candidates: testCandidates(60),
			})
			if err != nil {
				t.Fatalf("Recommend() error: %v", err)
			}
			if len(resp.Recommendations) != tt.wantK {
				t.Errorf("got %d recommendations, want %d", len(resp.Recommendations), tt.wantK)
			}
		})
	}
}

func TestRecommendAppliesSponsorBoost(t *testing.T) {
	e := newWiredEngine(t, nil)

	cands := []Candidate{
		{ID: "org", BusinessID: "b1", Category: "coffee", SponsorTier: TierOrganic},
		{ID: "prem", BusinessID: "b2", Category: "coffee", SponsorTier: TierPremium},
	}
	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 5, Candidates: cands})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}

	byID := make(map[string]Recommendation)
	for _, r := range resp.Recommendations {
		byID[r.Candidate.ID] = r
	}
	org, prem := byID["org"], byID["prem"]
	if org.Breakdown.SponsorMultiplier != 1.0 {
		t.Errorf("organic multiplier = %v, want 1.0", org.Breakdown.SponsorMultiplier)
	}
	if prem.Breakdown.SponsorMultiplier != 1.30 {
		t.Errorf("premium multiplier = %v, want 1.30", prem.Breakdown.SponsorMultiplier)
	}
	if !prem.IsSponsored || org.IsSponsored {
		t.Error("sponsored flags wrong")
	}
}

func TestRecommendCache(t *testing.T) {
	e := newWiredEngine(t, nil)
	src := &mockSource{candidates: testCandidates(6)}
	e.SetCandidateSource(src)

	req := Request{
		UserID:  "u1",
		K:       5,
		Context: RequestContext{Now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
	}

	first, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first request reported a cache hit")
	}

	second, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second request missed the cache")
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1 (cached)", src.calls)
	}

	m := e.GetMetrics()
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Errorf("cache counters = %d hits / %d misses, want 1/1", m.CacheHits, m.CacheMisses)
	}
}

func TestRecommendInlineRequestsNotCached(t *testing.T) {
	e := newWiredEngine(t, nil)

	req := Request{UserID: "u1", K: 5, Candidates: testCandidates(6)}
	for i := 0; i < 2; i++ {
		resp, err := e.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}
		if resp.Metadata.CacheHit {
			t.Error("inline-candidate request served from cache")
		}
	}
}

func TestApplyFeedback(t *testing.T) {
	e := newWiredEngine(t, nil)
	learner := &mockLearner{}
	e.SetLearner(learner)
	store := newMockProfiles()
	e.SetProfileStore(store)

	err := e.ApplyFeedback(context.Background(), FeedbackEvent{
		UserID:   "u1",
		Category: "coffee",
		Rating:   RatingPositive,
	})
	if err != nil {
		t.Fatalf("ApplyFeedback() error: %v", err)
	}
	if learner.applied != 1 {
		t.Errorf("learner applied %d times, want 1", learner.applied)
	}
	if store.saved != 1 {
		t.Errorf("store saved %d times, want 1", store.saved)
	}
	if !store.learned["u1"].IsFavorite("coffee") {
		t.Error("updated profile not persisted")
	}
}

func TestApplyFeedbackInvalidatesCache(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetLearner(&mockLearner{})
	e.SetProfileStore(newMockProfiles())
	src := &mockSource{candidates: testCandidates(6)}
	e.SetCandidateSource(src)

	req := Request{
		UserID:  "u1",
		K:       5,
		Context: RequestContext{Now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
	}
	if _, err := e.Recommend(context.Background(), req); err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}

	err := e.ApplyFeedback(context.Background(), FeedbackEvent{
		UserID: "u1", Category: "coffee", Rating: RatingPositive,
	})
	if err != nil {
		t.Fatalf("ApplyFeedback() error: %v", err)
	}

	resp, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if resp.Metadata.CacheHit {
		t.Error("cache not invalidated after feedback")
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2 (recomputed)", src.calls)
	}
}

func TestApplyFeedbackNoLearner(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetProfileStore(newMockProfiles())
	err := e.ApplyFeedback(context.Background(), FeedbackEvent{UserID: "u1", Category: "coffee"})
	if err == nil {
		t.Error("ApplyFeedback() without learner did not error")
	}
}

func TestApplyFeedbackStoreErrors(t *testing.T) {
	e := newWiredEngine(t, nil)
	e.SetLearner(&mockLearner{})

	t.Run("no_store", func(t *testing.T) {
		if err := e.ApplyFeedback(context.Background(), FeedbackEvent{UserID: "u1"}); err == nil {
			t.Error("ApplyFeedback() without store did not error")
		}
	})

	t.Run("get_error", func(t *testing.T) {
		store := newMockProfiles()
		store.getErr = errors.New("unavailable")
		e.SetProfileStore(store)
		if err := e.ApplyFeedback(context.Background(), FeedbackEvent{UserID: "u1"}); err == nil {
			t.Error("ApplyFeedback() did not propagate get error")
		}
	})

	t.Run("save_error", func(t *testing.T) {
		store := newMockProfiles()
		store.saveErr = errors.New("read only")
		e.SetProfileStore(store)
		if err := e.ApplyFeedback(context.Background(), FeedbackEvent{UserID: "u1"}); err == nil {
			t.Error("ApplyFeedback() did not propagate save error")
		}
	})
}

func TestGetMetricsCounts(t *testing.T) {
	e := newWiredEngine(t, nil)
	for i := 0; i < 3; i++ {
		if _, err := e.Recommend(context.Background(), Request{
			UserID: "u1", K: 5, Candidates: testCandidates(3),
		}); err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}
	}
	if got := e.GetMetrics().RequestCount; got != 3 {
		t.Errorf("RequestCount = %d, want 3", got)
	}
}

func TestGetConfigReturnsCopy(t *testing.T) {
	e := newWiredEngine(t, nil)
	cfg := e.GetConfig()
	cfg.Rules.DefaultK = 99
	if e.GetConfig().Rules.DefaultK == 99 {
		t.Error("GetConfig() exposed internal config")
	}
}

func TestRequestIDGenerated(t *testing.T) {
	e := newWiredEngine(t, nil)
	resp, err := e.Recommend(context.Background(), Request{
		UserID: "u1", K: 5, Candidates: testCandidates(2),
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("request ID not generated")
	}

	again, err := e.Recommend(context.Background(), Request{
		UserID: "u1", K: 5, Candidates: testCandidates(2), RequestID: "custom-1",
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if again.Metadata.RequestID != "custom-1" {
		t.Errorf("RequestID = %q, want custom-1", again.Metadata.RequestID)
	}
}

// histogramSampleCount reads the observation count of a histogram collector.
func histogramSampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := h.Write(m); err != nil {
		t.Fatalf("write histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecommendRecordsPrometheusMetrics(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		e := newWiredEngine(t, nil)
		e.SetCandidateSource(&mockSource{candidates: testCandidates(6)})

		beforeOK := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("ok"))
		beforeLatency := histogramSampleCount(t, metrics.RecommendLatency)
		beforeScored := histogramSampleCount(t, metrics.CandidatesScored)

		if _, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 5}); err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}

		if got := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("ok")) - beforeOK; got != 1 {
			t.Errorf("ok counter delta = %v, want 1", got)
		}
		if got := histogramSampleCount(t, metrics.RecommendLatency) - beforeLatency; got != 1 {
			t.Errorf("latency observations delta = %d, want 1", got)
		}
		if got := histogramSampleCount(t, metrics.CandidatesScored) - beforeScored; got != 1 {
			t.Errorf("candidates-scored observations delta = %d, want 1", got)
		}
	})

	t.Run("cache hit", func(t *testing.T) {
		e := newWiredEngine(t, nil)
		e.SetCandidateSource(&mockSource{candidates: testCandidates(6)})
		req := Request{UserID: "u1", K: 5}
		if _, err := e.Recommend(context.Background(), req); err != nil {
			t.Fatalf("warm-up Recommend() error: %v", err)
		}

		before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("cache_hit"))
		if _, err := e.Recommend(context.Background(), req); err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}
		if got := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("cache_hit")) - before; got != 1 {
			t.Errorf("cache_hit counter delta = %v, want 1", got)
		}
	})

	t.Run("empty candidate list", func(t *testing.T) {
		e := newWiredEngine(t, nil)
		e.SetCandidateSource(&mockSource{})

		before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("empty"))
		if _, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 5}); err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}
		if got := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("empty")) - before; got != 1 {
			t.Errorf("empty counter delta = %v, want 1", got)
		}
	})

	t.Run("source error", func(t *testing.T) {
		e := newWiredEngine(t, nil)
		e.SetCandidateSource(&mockSource{err: errors.New("backend down")})

		before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("error"))
		if _, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 5}); err == nil {
			t.Fatal("Recommend() expected error")
		}
		if got := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("error")) - before; got != 1 {
			t.Errorf("error counter delta = %v, want 1", got)
		}
	})
}
