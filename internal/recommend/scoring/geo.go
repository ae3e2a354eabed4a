// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package scoring

import (
	"math"

	"github.com/tomtom215/venuerank/internal/recommend"
)

// earthRadiusUnits is the Earth radius in distance units (statute miles).
const earthRadiusUnits = 3958.8

// Haversine returns the great-circle distance between two points in
// distance units.
func Haversine(a, b recommend.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusUnits * math.Asin(math.Sqrt(h))
}

// DistanceToSegment returns the distance in units from point p to the
// segment between a and b. Used for the inferred commute line between home
// and work. Computed on a local equirectangular projection, which is
// accurate at commute scale.
func DistanceToSegment(p, a, b recommend.Coordinates) float64 {
	// Project around the segment midpoint.
	midLat := (a.Lat + b.Lat) / 2
	scale := math.Cos(midLat * math.Pi / 180)

	toXY := func(c recommend.Coordinates) (float64, float64) {
		x := c.Lon * scale * math.Pi / 180 * earthRadiusUnits
		y := c.Lat * math.Pi / 180 * earthRadiusUnits
		return x, y
	}

	px, py := toXY(p)
	ax, ay := toXY(a)
	bx, by := toXY(b)

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	// Clamp the projection parameter to the segment.
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy)
}
