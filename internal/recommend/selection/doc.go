// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package selection implements the business-rule filter that turns the
// scored candidate list into the final ordered top-K.
//
// Rules apply in order to the score-descending list:
//
//  1. Duplicate-business exclusion: at most one candidate per business,
//     keeping the highest-scoring one
//  2. Sponsored ratio cap: at most floor(ratio*k) paid placements; organic
//     candidates keep flowing once the cap is hit
//  3. Category diversity floor: the output covers at least the configured
//     number of distinct categories whenever the input does, via a bounded
//     best-available substitution
//  4. Truncation to exactly k, output in final score order
//
// Ties are broken by candidate ID ascending, so identical inputs always
// produce byte-identical output.
package selection
