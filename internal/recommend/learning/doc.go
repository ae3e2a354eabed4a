// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package learning evolves a user's learned preference profile from
// feedback events.
//
// The learner is a pure function: each call takes the current profile and
// one event and returns a new profile, leaving the input untouched. The
// caller owns persistence and must deliver each event exactly once per
// user in order; transitions are neither commutative nor idempotent.
//
// Positive feedback promotes the event's category to the favorites set
// and may relax price sensitivity or tighten the preferred distance based
// on the event's tags. Negative feedback demotes the category and may
// tighten either preference. The favorite and disliked sets are kept
// disjoint on every transition, repairing earlier caller mistakes
// opportunistically. Unknown tags and off-taxonomy categories are
// accepted without complaint.
package learning
