// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

// Package metrics exposes Prometheus collectors for the recommendation
// pipeline and the feedback stream. Collectors are registered on the
// default registry; the embedding application decides how to serve them.
package metrics
