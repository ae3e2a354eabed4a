// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package feedback

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/venuerank/internal/metrics"
	"github.com/tomtom215/venuerank/internal/recommend"
)

// Applier is the engine surface the consumer drives. Satisfied by
// *recommend.Engine.
type Applier interface {
	ApplyFeedback(ctx context.Context, event recommend.FeedbackEvent) error
}

// Consumer applies feedback events from the bus to the engine, one at a
// time in arrival order. It implements suture.Service so a supervisor
// restarts it after a failure; the transport redelivers nacked messages,
// so a restart resumes where the last acked message left off.
type Consumer struct {
	cfg      Config
	bus      *Bus
	engine   Applier
	limiter  *rate.Limiter
	validate *validator.Validate
	logger   zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewConsumer creates a consumer bound to the bus and engine.
func NewConsumer(cfg Config, bus *Bus, engine Applier, logger zerolog.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, fmt.Errorf("feedback: bus must not be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("feedback: engine must not be nil")
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)
	}

	return &Consumer{
		cfg:      cfg,
		bus:      bus,
		engine:   engine,
		limiter:  limiter,
		validate: validator.New(),
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the consumer's subscription is active. Events
// published before that point are not retained by the transport.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve subscribes to the feedback topic and processes messages until ctx is
// canceled. It returns nil on cancellation and an error on transport failure.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.bus.channel.Subscribe(ctx, c.cfg.Topic)
	if err != nil {
		return fmt.Errorf("feedback: subscribe to %s: %w", c.cfg.Topic, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })

	c.logger.Info().Str("topic", c.cfg.Topic).Msg("Feedback consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Feedback consumer stopping")
			return nil
		case msg, ok := <-messages:
			if !ok {
				// The transport closes the channel on shutdown too; only an
				// unprompted close is a failure.
				if ctx.Err() != nil {
					c.logger.Info().Msg("Feedback consumer stopping")
					return nil
				}
				return fmt.Errorf("feedback: subscription to %s closed", c.cfg.Topic)
			}
			c.handle(ctx, msg)
		}
	}
}

// handle processes a single message. Malformed payloads are acked so they
// are never redelivered; engine failures are nacked for retry.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Shutdown mid-wait. Nack so the message is redelivered after
			// restart.
			msg.Nack()
			return
		}
	}

	var event recommend.FeedbackEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Warn().
			Err(err).
			Str("message_id", msg.UUID).
			Msg("Dropping malformed feedback payload")
		metrics.FeedbackEvents.WithLabelValues("malformed").Inc()
		msg.Ack()
		return
	}

	if err := c.validate.Struct(event); err != nil {
		c.logger.Warn().
			Err(err).
			Str("message_id", msg.UUID).
			Str("event_id", event.EventID).
			Msg("Dropping invalid feedback event")
		metrics.FeedbackEvents.WithLabelValues("malformed").Inc()
		msg.Ack()
		return
	}

	if err := c.engine.ApplyFeedback(ctx, event); err != nil {
		c.logger.Error().
			Err(err).
			Str("event_id", event.EventID).
			Str("user_id", event.UserID).
			Msg("Failed to apply feedback event")
		metrics.FeedbackEvents.WithLabelValues("error").Inc()
		msg.Nack()
		return
	}

	metrics.FeedbackEvents.WithLabelValues("applied").Inc()
	msg.Ack()
}
