// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package feedback

import (
	"log/slog"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/venuerank/internal/logging"
)

// SupervisorConfig holds restart parameters for the feedback supervisor.
type SupervisorConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64 `json:"failure_threshold"`

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64 `json:"failure_decay"`

	// FailureBackoff is how long to wait when the threshold is exceeded.
	FailureBackoff time.Duration `json:"failure_backoff"`

	// ShutdownTimeout is the maximum wait for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// DefaultSupervisorConfig matches suture's built-in defaults.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// NewSupervisor builds a suture supervisor that keeps the given services
// running, restarting them within the configured failure budget. Supervisor
// events are logged through the process zerolog sink via the slog bridge.
//
// The caller starts it with ServeBackground and stops it by canceling the
// context.
func NewSupervisor(cfg SupervisorConfig, logger zerolog.Logger, services ...suture.Service) *suture.Supervisor {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.FailureDecay <= 0 {
		cfg.FailureDecay = 30
	}
	if cfg.FailureBackoff <= 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	// MustHook has a pointer receiver, so the handler needs an address.
	handler := &sutureslog.Handler{
		Logger: slog.New(logging.NewSlogHandlerWithLogger(logger)),
	}
	eventHook := handler.MustHook()

	sup := suture.New("feedback", suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
	for _, svc := range services {
		sup.Add(svc)
	}
	return sup
}
