// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package feedback delivers feedback events to the recommendation engine
// over an in-process Watermill stream.
//
// The profile learner requires a serialized, exactly-once event stream per
// user; this package is the collaborator that upholds that contract for
// single-process deployments. A Publisher marshals events onto a topic and
// a single Consumer applies them in arrival order through
// Engine.ApplyFeedback. The consumer runs as a suture service so a
// supervisor restarts it on failure.
//
// Malformed messages are acked and counted rather than redelivered:
// replaying a message that cannot ever parse would wedge the stream.
// Store failures are nacked for redelivery.
package feedback
