// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package explain

import (
	"fmt"

	"github.com/tomtom215/venuerank/internal/recommend"
)

// secondaryThreshold is the fraction of the dominant factor's normalized
// strength a runner-up must reach to be mentioned alongside it.
const secondaryThreshold = 0.75

// factor identifies one of the explainable score components. The order of
// the constants is the tie-break order: interest wins ties over proximity,
// proximity over timing.
type factor int

const (
	factorInterest factor = iota
	factorProximity
	factorTiming
)

// Generator renders templated explanation sentences. It is pure and safe
// for concurrent use.
type Generator struct {
	cfg recommend.ScoringConfig
}

// NewGenerator creates an explanation generator normalizing against the
// given scoring budgets.
func NewGenerator(cfg recommend.ScoringConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Name returns the explainer identifier.
func (g *Generator) Name() string {
	return "templated"
}

// Explain renders a one-sentence explanation for a recommendation. The
// output references interest match, proximity, or timing, optionally
// garnished with the venue's rating, and never contains score numbers.
//
//nolint:gocritic // hugeParam: rec passed by value for immutability
func (g *Generator) Explain(rec recommend.Recommendation) string {
	primary, secondary := g.dominantFactors(rec.Breakdown)

	sentence := g.render(primary, rec)
	if secondary != nil {
		sentence = joinClauses(sentence, g.renderSecondary(*secondary, rec))
	}
	if garnish := ratingGarnish(rec.Candidate); garnish != "" {
		sentence = joinClauses(sentence, garnish)
	}
	return sentence + "."
}

// dominantFactors normalizes base, location, and time against their
// budgets and returns the strongest factor plus, when close enough, the
// runner-up. Ties resolve in constant declaration order, interest first.
func (g *Generator) dominantFactors(b recommend.ScoreBreakdown) (factor, *factor) {
	norm := [3]float64{
		factorInterest:  safeRatio(b.Base, g.cfg.BaseTopInterest),
		factorProximity: safeRatio(b.Location, g.cfg.LocationNear),
		factorTiming:    safeRatio(b.Time, g.cfg.TimeIdeal),
	}

	primary := factorInterest
	for f := factorProximity; f <= factorTiming; f++ {
		if norm[f] > norm[primary] {
			primary = f
		}
	}

	secondary := -1
	for f := factorInterest; f <= factorTiming; f++ {
		if f == primary {
			continue
		}
		if secondary < 0 || norm[f] > norm[secondary] {
			secondary = int(f)
		}
	}
	if secondary >= 0 && norm[primary] > 0 && norm[secondary]/norm[primary] >= secondaryThreshold {
		s := factor(secondary)
		return primary, &s
	}
	return primary, nil
}

// render produces the leading clause for the dominant factor.
//
//nolint:gocritic // hugeParam: rec passed by value for immutability
func (g *Generator) render(f factor, rec recommend.Recommendation) string {
	switch f {
	case factorProximity:
		return proximityLead(rec.Breakdown.Distance)
	case factorTiming:
		return "A great fit for this time of day"
	default:
		return fmt.Sprintf("Matches your interest in %s", displayCategory(rec.Candidate.Category))
	}
}

// proximityLead renders the leading clause when proximity dominates.
func proximityLead(d float64) string {
	switch {
	case d < 0:
		return "Conveniently located for you"
	case d <= 0.5:
		return "Just around the corner from you"
	case d <= 1.0:
		return "A short walk from you"
	case d <= 3.0:
		return "A quick trip from you"
	default:
		return "Within easy reach"
	}
}

// renderSecondary produces the trailing clause for a close runner-up
// factor.
//
//nolint:gocritic // hugeParam: rec passed by value for immutability
func (g *Generator) renderSecondary(f factor, rec recommend.Recommendation) string {
	switch f {
	case factorProximity:
		return distancePhrase(rec.Breakdown.Distance)
	case factorTiming:
		return "open at a good time for you"
	default:
		return fmt.Sprintf("fits your interest in %s", displayCategory(rec.Candidate.Category))
	}
}

// distancePhrase renders a distance qualitatively for the trailing
// clause. A negative distance means no location reference existed during
// scoring.
func distancePhrase(d float64) string {
	switch {
	case d < 0:
		return "conveniently located"
	case d <= 0.5:
		return "just around the corner"
	case d <= 1.0:
		return "a short walk away"
	case d <= 3.0:
		return "a quick trip away"
	default:
		return "within reach"
	}
}

// ratingGarnish adds a qualitative rating mention for well-reviewed
// venues. Venues without enough reviews get no garnish.
func ratingGarnish(c recommend.Candidate) string {
	if c.ReviewCount < 10 {
		return ""
	}
	switch {
	case c.Rating >= 4.5:
		return "highly rated by visitors"
	case c.Rating >= 4.0:
		return "well rated by visitors"
	default:
		return ""
	}
}

// displayCategory maps a raw category to user-facing text.
func displayCategory(category string) string {
	c := recommend.NormalizeCategory(category)
	if c == "" {
		return "this kind of place"
	}
	return c
}

// joinClauses appends a clause with a comma, lowercasing nothing; the
// secondary templates are already written lowercase.
func joinClauses(head, tail string) string {
	return head + ", " + tail
}

func safeRatio(value, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return value / budget
}

// Interface compliance.
var _ recommend.Explainer = (*Generator)(nil)
