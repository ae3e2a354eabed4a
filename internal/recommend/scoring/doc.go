// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package scoring implements the multi-factor score calculator.
//
// Five sub-scores share a 100-point budget before the sponsor multiplier:
//
//   - Base (0-40): stated-interest match, with a related-category tier that
//     keeps unexplored categories reachable
//   - Location (0-20): proximity to home, work, or the commute line between
//     them; distance degrades the score but never disqualifies
//   - Time (0-15): fit against the category's canonical time-of-day windows
//   - Feedback (0-15): learned favorite/disliked signal plus a price-match
//     bonus
//   - Collaborative (0-10): a neutral constant, overridable per request by
//     an external similarity signal
//
// The calculator is a pure function of its inputs and is total: missing
// optional candidate fields substitute documented neutral defaults rather
// than failing.
package scoring
