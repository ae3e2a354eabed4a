// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package explain renders user-facing explanation sentences for scored
// recommendations.
//
// Explanations are templated and deterministic: the generator picks the
// dominant contributing factor from the score breakdown (base interest
// match, proximity, or timing, normalized against each factor's budget)
// and renders a short sentence for it. When a second factor comes close
// to the dominant one, both are mentioned. Raw numeric scores never
// appear in the output; distance and rating surface in qualitative or
// human-readable form only.
package explain
