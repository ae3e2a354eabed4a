// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package profilestore persists user profiles in an embedded BadgerDB
// keyspace.
//
// Stated profiles are written by the application when a user edits their
// preferences; learned profiles are written by the engine as feedback is
// applied. Unknown users read back as neutral defaults rather than errors,
// so a brand-new user can be scored without a prior write.
package profilestore
