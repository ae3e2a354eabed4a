// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package feedback

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/recommend"
)

// Publisher serializes feedback events onto the bus.
type Publisher struct {
	topic  string
	bus    *Bus
	logger zerolog.Logger
}

// NewPublisher creates a publisher bound to the bus and configured topic.
func NewPublisher(cfg Config, bus *Bus, logger zerolog.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, fmt.Errorf("feedback: bus must not be nil")
	}
	return &Publisher{
		topic:  cfg.Topic,
		bus:    bus,
		logger: logger,
	}, nil
}

// Publish marshals the event and sends it on the configured topic. A missing
// EventID is filled with a fresh UUID and a zero OccurredAt with the current
// time, so consumers always see a traceable, timestamped event.
func (p *Publisher) Publish(event recommend.FeedbackEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("feedback: marshal event %s: %w", event.EventID, err)
	}

	msg := message.NewMessage(event.EventID, payload)
	if err := p.bus.channel.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("feedback: publish event %s: %w", event.EventID, err)
	}

	p.logger.Debug().
		Str("event_id", event.EventID).
		Str("user_id", event.UserID).
		Str("rating", event.Rating.String()).
		Msg("Feedback event published")
	return nil
}
