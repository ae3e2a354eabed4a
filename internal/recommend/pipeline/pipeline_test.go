// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/recommend"
)

var (
	home    = recommend.Coordinates{Lat: 40.7128, Lon: -74.0060}
	morning = time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
)

// nearHome returns coordinates roughly the given number of distance units
// north of home (one degree of latitude is about 69 units).
func nearHome(units float64) recommend.Coordinates {
	return recommend.Coordinates{Lat: home.Lat + units/69.0, Lon: home.Lon}
}

func newTestEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	engine, err := New(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return engine
}

// memoryStore is an in-memory ProfileStore for feedback tests.
type memoryStore struct {
	mu       sync.Mutex
	stated   map[string]recommend.UserProfile
	learned  map[string]recommend.AIProfile
	saveErrs int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		stated:  make(map[string]recommend.UserProfile),
		learned: make(map[string]recommend.AIProfile),
	}
}

func (s *memoryStore) GetUserProfile(_ context.Context, userID string) (recommend.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stated[userID], nil
}

func (s *memoryStore) GetAIProfile(_ context.Context, userID string) (recommend.AIProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.learned[userID]; ok {
		return p, nil
	}
	return recommend.DefaultAIProfile(), nil
}

func (s *memoryStore) SaveAIProfile(_ context.Context, userID string, profile recommend.AIProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learned[userID] = profile
	return nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func request(candidates []recommend.Candidate, k int) recommend.Request {
	return recommend.Request{
		UserID:     "u1",
		K:          k,
		Candidates: candidates,
		Profile: &recommend.UserProfile{
			Interests:    []string{"coffee", "museum", "hiking"},
			HomeLocation: &home,
		},
		Context: recommend.RequestContext{Now: morning},
	}
}

func TestTopInterestNearbyMorningCoffee(t *testing.T) {
	engine := newTestEngine(t)

	// Organic coffee shop in the user's top interest, well inside the
	// near radius, at its ideal hour.
	cand := recommend.Candidate{
		ID:          "c1",
		BusinessID:  "b1",
		Category:    "coffee",
		Location:    nearHome(0.3),
		Rating:      4.8,
		ReviewCount: 200,
		PriceTier:   recommend.PriceTierUnknown,
		SponsorTier: recommend.TierOrganic,
	}

	resp, err := engine.Recommend(context.Background(), request([]recommend.Candidate{cand}, 5))
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(resp.Recommendations))
	}

	b := resp.Recommendations[0].Breakdown
	if !almostEqual(b.Base, 40) {
		t.Errorf("Base = %v, want 40", b.Base)
	}
	if !almostEqual(b.Location, 20) {
		t.Errorf("Location = %v, want 20", b.Location)
	}
	if !almostEqual(b.Time, 15) {
		t.Errorf("Time = %v, want 15", b.Time)
	}
	if !almostEqual(b.Feedback, 5) {
		t.Errorf("Feedback = %v, want 5", b.Feedback)
	}
	if !almostEqual(b.Collaborative, 5) {
		t.Errorf("Collaborative = %v, want 5", b.Collaborative)
	}
	if !almostEqual(b.Final, 85) {
		t.Errorf("Final = %v, want 85", b.Final)
	}
	if resp.Recommendations[0].IsSponsored {
		t.Error("organic candidate flagged as sponsored")
	}
	if resp.Recommendations[0].Explanation == "" {
		t.Error("missing explanation")
	}
}

func TestPremiumMultiplierAboveThreshold(t *testing.T) {
	engine := newTestEngine(t)

	cand := recommend.Candidate{
		ID:          "c1",
		BusinessID:  "b1",
		Category:    "coffee",
		Location:    nearHome(0.3),
		PriceTier:   recommend.PriceTierUnknown,
		SponsorTier: recommend.TierPremium,
	}

	resp, err := engine.Recommend(context.Background(), request([]recommend.Candidate{cand}, 5))
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	b := resp.Recommendations[0].Breakdown
	if !almostEqual(b.BaseTotal(), 85) {
		t.Fatalf("BaseTotal = %v, want 85", b.BaseTotal())
	}
	if !almostEqual(b.Final, 110.5) {
		t.Errorf("Final = %v, want 110.5 (85 * 1.30)", b.Final)
	}
	if !resp.Recommendations[0].IsSponsored {
		t.Error("premium candidate not flagged as sponsored")
	}
}

func TestBoostCapForLowRelevance(t *testing.T) {
	engine := newTestEngine(t)

	// Unrelated category, far away, wrong hour: 10+5+5+5+5 = 30, below
	// the relevance threshold, so the boost is additive and capped.
	cand := recommend.Candidate{
		ID:          "c1",
		BusinessID:  "b1",
		Category:    "bar",
		Location:    nearHome(14),
		PriceTier:   recommend.PriceTierUnknown,
		SponsorTier: recommend.TierBoosted,
	}

	req := recommend.Request{
		UserID:     "u1",
		K:          5,
		Candidates: []recommend.Candidate{cand},
		Profile: &recommend.UserProfile{
			Interests:    []string{"coffee"},
			HomeLocation: &home,
		},
		Context: recommend.RequestContext{Now: morning},
	}
	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	b := resp.Recommendations[0].Breakdown
	if !almostEqual(b.BaseTotal(), 30) {
		t.Fatalf("BaseTotal = %v, want 30", b.BaseTotal())
	}
	if !almostEqual(b.Final, 34.5) {
		t.Errorf("Final = %v, want 34.5 (30 + 30*0.15)", b.Final)
	}
}

func TestDiversitySubstitution(t *testing.T) {
	engine := newTestEngine(t)

	// Eight bars outrank two museums; at k=5 a museum must still appear.
	var cands []recommend.Candidate
	for i := 0; i < 8; i++ {
		cands = append(cands, recommend.Candidate{
			ID:          fmt.Sprintf("bar%d", i),
			BusinessID:  fmt.Sprintf("bb%d", i),
			Category:    "bar",
			Location:    nearHome(0.3),
			PriceTier:   recommend.PriceTierUnknown,
			SponsorTier: recommend.TierOrganic,
		})
	}
	for i := 0; i < 2; i++ {
		cands = append(cands, recommend.Candidate{
			ID:          fmt.Sprintf("mus%d", i),
			BusinessID:  fmt.Sprintf("mb%d", i),
			Category:    "museum",
			Location:    nearHome(12),
			PriceTier:   recommend.PriceTierUnknown,
			SponsorTier: recommend.TierOrganic,
		})
	}

	req := recommend.Request{
		UserID:     "u1",
		K:          5,
		Candidates: cands,
		Profile: &recommend.UserProfile{
			Interests:    []string{"bar"},
			HomeLocation: &home,
		},
		Context: recommend.RequestContext{Now: time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)},
	}
	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(resp.Recommendations) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(resp.Recommendations))
	}
	museums := 0
	for _, r := range resp.Recommendations {
		if r.Candidate.Category == "museum" {
			museums++
		}
	}
	if museums < 1 {
		t.Error("no museum in output despite diversity floor")
	}
}

func TestFeedbackTransition(t *testing.T) {
	engine := newTestEngine(t)
	store := newMemoryStore()
	engine.SetProfileStore(store)

	err := engine.ApplyFeedback(context.Background(), recommend.FeedbackEvent{
		UserID:   "u1",
		Category: "hiking",
		Rating:   recommend.RatingNegative,
		Tags:     []string{"too far"},
	})
	if err != nil {
		t.Fatalf("ApplyFeedback() error: %v", err)
	}

	saved, err := store.GetAIProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetAIProfile() error: %v", err)
	}
	if !saved.IsDisliked("hiking") {
		t.Error("hiking not disliked after negative feedback")
	}
	if saved.IsFavorite("hiking") {
		t.Error("hiking still in favorites")
	}
	if !almostEqual(saved.PreferredDistance, 1.5) {
		t.Errorf("PreferredDistance = %v, want 1.5", saved.PreferredDistance)
	}
}

func TestEmptyCandidateList(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Recommend(context.Background(), request(nil, 5))
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if resp.Recommendations == nil {
		t.Fatal("Recommendations is nil, want empty slice")
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(resp.Recommendations))
	}
}

// TestPipelineProperties exercises the engine over a deterministic spread
// of candidate mixes and asserts the output invariants hold everywhere.
func TestPipelineProperties(t *testing.T) {
	engine := newTestEngine(t)
	categories := []string{"coffee", "bar", "museum", "park", "hiking", "gym", "market"}

	for trial := 0; trial < 30; trial++ {
		n := 10 + trial
		k := 5 + trial%10
		var cands []recommend.Candidate
		for i := 0; i < n; i++ {
			tier := recommend.TierOrganic
			switch (i + trial) % 3 {
			case 1:
				tier = recommend.TierBoosted
			case 2:
				tier = recommend.TierPremium
			}
			cands = append(cands, recommend.Candidate{
				ID:          fmt.Sprintf("t%d-c%02d", trial, i),
				BusinessID:  fmt.Sprintf("t%d-b%02d", trial, i%(n-2)),
				Category:    categories[(i*3+trial)%len(categories)],
				Location:    nearHome(float64(i%9) * 0.7),
				Rating:      3.0 + float64(i%5)*0.5,
				ReviewCount: i * 13,
				PriceTier:   i%5 - 1,
				SponsorTier: tier,
			})
		}

		resp, err := engine.Recommend(context.Background(), request(cands, k))
		if err != nil {
			t.Fatalf("trial %d: Recommend() error: %v", trial, err)
		}

		sponsoredCap := int(math.Floor(0.4 * float64(k)))
		sponsored := 0
		businesses := make(map[string]int)
		cats := make(map[string]bool)
		for _, r := range resp.Recommendations {
			b := r.Breakdown
			if b.Final < 0 || b.Final > 100*1.30 {
				t.Errorf("trial %d: final %v out of bounds", trial, b.Final)
			}
			if b.BaseTotal() < 40 && b.Final-b.BaseTotal() > 10+1e-9 {
				t.Errorf("trial %d: boost exceeds cap: base_total=%v final=%v", trial, b.BaseTotal(), b.Final)
			}
			if r.IsSponsored {
				sponsored++
			}
			businesses[r.Candidate.BusinessID]++
			cats[r.Candidate.Category] = true
			if r.Explanation == "" {
				t.Errorf("trial %d: empty explanation for %s", trial, r.Candidate.ID)
			}
		}
		if sponsored > sponsoredCap {
			t.Errorf("trial %d: %d sponsored, cap %d", trial, sponsored, sponsoredCap)
		}
		for bid, count := range businesses {
			if bid != "" && count > 1 {
				t.Errorf("trial %d: business %s appears %d times", trial, bid, count)
			}
		}
		if len(resp.Recommendations) >= 3 && len(cats) < 3 {
			t.Errorf("trial %d: only %d categories in output", trial, len(cats))
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	engine := newTestEngine(t)

	var cands []recommend.Candidate
	for i := 0; i < 12; i++ {
		cands = append(cands, recommend.Candidate{
			ID:          fmt.Sprintf("c%02d", i),
			BusinessID:  fmt.Sprintf("b%02d", i),
			Category:    []string{"coffee", "museum", "bar", "park"}[i%4],
			Location:    nearHome(float64(i) * 0.4),
			PriceTier:   recommend.PriceTierUnknown,
			SponsorTier: recommend.TierOrganic,
		})
	}

	req := request(cands, 6)
	first, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := engine.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend() error: %v", err)
		}
		if len(got.Recommendations) != len(first.Recommendations) {
			t.Fatalf("run %d: %d recommendations, want %d", i, len(got.Recommendations), len(first.Recommendations))
		}
		for j := range first.Recommendations {
			a, b := first.Recommendations[j], got.Recommendations[j]
			if a.Candidate.ID != b.Candidate.ID {
				t.Fatalf("run %d position %d: %s vs %s", i, j, b.Candidate.ID, a.Candidate.ID)
			}
			if !almostEqual(a.Breakdown.Final, b.Breakdown.Final) {
				t.Fatalf("run %d: score drift for %s", i, a.Candidate.ID)
			}
			if a.Explanation != b.Explanation {
				t.Fatalf("run %d: explanation drift for %s", i, a.Candidate.ID)
			}
		}
	}
}
