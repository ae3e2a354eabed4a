// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package recommend implements the scoring and ranking core that turns a set
// of candidate activities (restaurants, events, venues) plus a user's stated
// and learned preferences into an ordered, explained, business-rule-compliant
// list of suggestions.
//
// # Pipeline
//
// One recommendation request flows through four stages:
//
//	candidates -> scoring (interest/location/time/feedback/collaborative)
//	           -> sponsor boost (bounded multiplicative, anti-spam capped)
//	           -> rule selection (duplicate business, sponsored ratio, diversity)
//	           -> explanation (templated, factor-dominant)
//
// A fifth component, the profile learner, runs on a separate trigger (user
// feedback) and folds back into the learned profile read by scoring.
//
// # Design Principles
//
//   - Deterministic: identical inputs produce byte-identical output
//   - Total: missing optional candidate fields degrade to neutral defaults,
//     they never raise
//   - Pure stages: scoring and learning are pure functions; persistence and
//     retrieval are external collaborators behind interfaces
//   - Auditable: all operations are logged with structured fields
//   - Tunable: every scoring constant lives in Config, not in logic
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//	engine.SetScorer(scoring.NewCalculator(cfg.Scoring))
//	engine.SetSelector(selection.NewRuleFilter(cfg.Rules))
//	engine.SetExplainer(explain.NewGenerator())
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    UserID: userID,
//	    K:      10,
//	})
//
// The pipeline package assembles a fully wired engine in one call.
//
// # Thread Safety
//
// The engine is safe for concurrent use. The learned profile is the only
// shared mutable state in the system and is owned by the external profile
// store; the engine assumes a single serialized feedback stream per user.
//
// This package has no dependencies on other internal packages. Collaborator
// interfaces (CandidateSource, ProfileStore) decouple it from retrieval and
// persistence without circular imports.
package recommend
