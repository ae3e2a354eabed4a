// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation pipeline metrics

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuerank_recommend_requests_total",
			Help: "Total recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "error", "cache_hit"
	)

	RecommendLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "venuerank_recommend_latency_seconds",
			Help:    "End-to-end recommendation request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "venuerank_candidates_scored",
			Help:    "Number of candidates scored per request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Selection rule metrics

	SponsoredCapSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuerank_sponsored_cap_skips_total",
			Help: "Sponsored candidates skipped because the ratio cap was reached",
		},
	)

	DuplicateBusinessSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuerank_duplicate_business_skips_total",
			Help: "Candidates skipped because their business was already selected",
		},
	)

	DiversitySubstitutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuerank_diversity_substitutions_total",
			Help: "Selection swaps performed to satisfy the category diversity floor",
		},
	)

	// Feedback stream metrics

	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuerank_feedback_events_total",
			Help: "Feedback events consumed by result",
		},
		[]string{"result"}, // "applied", "malformed", "error"
	)

	ProfileTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuerank_profile_transitions_total",
			Help: "Profile learner transitions by feedback polarity",
		},
		[]string{"rating"}, // "positive", "negative"
	)
)
