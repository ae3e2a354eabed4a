// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package config assembles and validates process configuration from
// defaults, an optional YAML file, and environment variables, in that
// order of precedence.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/venuerank/internal/feedback"
	"github.com/tomtom215/venuerank/internal/logging"
	"github.com/tomtom215/venuerank/internal/recommend"
)

// Config is the full process configuration.
type Config struct {
	// Logging configures the zerolog sink shared by all components.
	Logging logging.Config `json:"logging"`

	// Recommend configures scoring, selection, learning, and engine limits.
	Recommend *recommend.Config `json:"recommend" validate:"required"`

	// Feedback configures the in-process feedback event stream.
	Feedback feedback.Config `json:"feedback"`

	// Supervisor configures restart behavior for the feedback consumer.
	Supervisor feedback.SupervisorConfig `json:"supervisor"`

	// Breaker configures the circuit breaker wrapped around candidate
	// sources and profile stores.
	Breaker recommend.BreakerSettings `json:"breaker"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Logging:    logging.DefaultConfig(),
		Recommend:  recommend.DefaultConfig(),
		Feedback:   feedback.DefaultConfig(),
		Supervisor: feedback.DefaultSupervisorConfig(),
		Breaker:    recommend.DefaultBreakerSettings(),
	}
}

// Validate checks the assembled configuration. Struct tags are checked
// first, then the section-level invariants that tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("config: recommend section: %w", err)
	}
	if err := c.Feedback.Validate(); err != nil {
		return fmt.Errorf("config: feedback section: %w", err)
	}
	return nil
}
