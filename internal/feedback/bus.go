// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package feedback

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Config controls the in-process feedback stream.
type Config struct {
	// Topic is the stream name feedback events are published on.
	Topic string `json:"topic" validate:"required"`

	// BufferSize is the per-subscriber channel buffer. Publishes block once
	// the buffer fills, which backpressures producers instead of dropping.
	BufferSize int64 `json:"buffer_size" validate:"min=0"`

	// RatePerSecond caps how many events the consumer applies per second.
	// Zero disables rate limiting.
	RatePerSecond float64 `json:"rate_per_second" validate:"min=0"`

	// RateBurst is the rate limiter burst size. Ignored when RatePerSecond
	// is zero.
	RateBurst int `json:"rate_burst" validate:"min=0"`
}

// DefaultConfig returns production defaults for the feedback stream.
func DefaultConfig() Config {
	return Config{
		Topic:         "feedback.events",
		BufferSize:    256,
		RatePerSecond: 100,
		RateBurst:     20,
	}
}

// Validate checks configuration invariants not covered by struct tags.
func (c Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("feedback: topic must not be empty")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("feedback: buffer size must not be negative, got %d", c.BufferSize)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("feedback: rate per second must not be negative, got %g", c.RatePerSecond)
	}
	if c.RatePerSecond > 0 && c.RateBurst < 1 {
		return fmt.Errorf("feedback: rate burst must be at least 1 when rate limiting is enabled, got %d", c.RateBurst)
	}
	return nil
}

// Bus is the in-process pub/sub transport carrying feedback events. A single
// bus must be shared between the Publisher and the Consumer; events published
// before the consumer subscribes are not retained.
type Bus struct {
	channel *gochannel.GoChannel
}

// NewBus creates an in-process transport with the configured buffer size.
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: cfg.BufferSize,
			},
			NewLoggerAdapter(logger),
		),
	}
}

// Close shuts the transport down. Pending messages are discarded.
func (b *Bus) Close() error {
	return b.channel.Close()
}
