// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package pipeline assembles the default recommendation engine from the
// standard stage implementations.
//
// The package exists so callers get a working engine from one call
// without importing every stage package; anything assembled here can
// still be swapped afterwards through the engine's setters.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/recommend"
	"github.com/tomtom215/venuerank/internal/recommend/explain"
	"github.com/tomtom215/venuerank/internal/recommend/learning"
	"github.com/tomtom215/venuerank/internal/recommend/scoring"
	"github.com/tomtom215/venuerank/internal/recommend/selection"
)

// New builds an engine wired with the multifactor score calculator, the
// business-rule selector, the templated explainer, and the rule-based
// profile learner. A nil config uses defaults.
func New(cfg *recommend.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}

	engine, err := recommend.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	engine.SetScorer(scoring.NewCalculator(cfg.Scoring))
	engine.SetSelector(selection.NewRuleFilter(cfg.Rules))
	engine.SetExplainer(explain.NewGenerator(cfg.Scoring))
	engine.SetLearner(learning.NewLearner(cfg.Learning))
	return engine, nil
}
