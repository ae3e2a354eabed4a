// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

// WindowQuality classifies how well an hour fits a category.
type WindowQuality int

const (
	// WindowOff means outside every defined window.
	WindowOff WindowQuality = iota
	// WindowSecondary means inside a good but not ideal window.
	WindowSecondary
	// WindowIdeal means inside the canonical window for the category.
	WindowIdeal
)

// HourWindow is a half-open hour range [Start, End). An End at or before
// Start wraps past midnight.
type HourWindow struct {
	Start   int
	End     int
	Quality WindowQuality
}

// Contains reports whether the hour (0-23) falls inside the window.
func (w HourWindow) Contains(hour int) bool {
	if w.Start < w.End {
		return hour >= w.Start && hour < w.End
	}
	// Wraps midnight.
	return hour >= w.Start || hour < w.End
}

// relatedCategories maps each taxonomy category to categories a user with
// that interest is likely to also enjoy. The mapping is symmetric by
// construction of the table; RelatedTo checks both directions anyway so
// additions don't have to be mirrored.
var relatedCategories = map[string][]string{
	"coffee":     {"cafe", "bakery", "brunch"},
	"cafe":       {"coffee", "bakery", "brunch"},
	"bakery":     {"coffee", "cafe", "brunch"},
	"brunch":     {"coffee", "cafe", "restaurant"},
	"restaurant": {"brunch", "bar", "food-truck"},
	"food-truck": {"restaurant", "market"},
	"bar":        {"restaurant", "club", "music"},
	"club":       {"bar", "music"},
	"music":      {"bar", "club", "theater"},
	"theater":    {"music", "cinema", "museum"},
	"cinema":     {"theater", "arcade"},
	"museum":     {"gallery", "theater", "bookstore"},
	"gallery":    {"museum", "bookstore"},
	"bookstore":  {"museum", "gallery", "cafe"},
	"park":       {"hiking", "market", "yoga"},
	"hiking":     {"park", "climbing"},
	"climbing":   {"hiking", "gym"},
	"gym":        {"climbing", "yoga"},
	"yoga":       {"gym", "spa", "park"},
	"spa":        {"yoga"},
	"market":     {"park", "food-truck", "shopping"},
	"shopping":   {"market"},
	"arcade":     {"cinema", "club"},
}

// categoryWindows holds the canonical time-of-day fit per category. Hours
// are local to the request's target time.
var categoryWindows = map[string][]HourWindow{
	"coffee":     {{7, 10, WindowIdeal}, {10, 15, WindowSecondary}},
	"cafe":       {{8, 11, WindowIdeal}, {11, 17, WindowSecondary}},
	"bakery":     {{7, 11, WindowIdeal}, {11, 14, WindowSecondary}},
	"brunch":     {{10, 13, WindowIdeal}, {9, 10, WindowSecondary}},
	"restaurant": {{18, 20, WindowIdeal}, {12, 14, WindowSecondary}, {20, 22, WindowSecondary}},
	"food-truck": {{11, 14, WindowIdeal}, {17, 20, WindowSecondary}},
	"bar":        {{19, 23, WindowIdeal}, {17, 19, WindowSecondary}},
	"club":       {{22, 2, WindowIdeal}, {20, 22, WindowSecondary}},
	"music":      {{19, 23, WindowIdeal}, {15, 19, WindowSecondary}},
	"theater":    {{19, 22, WindowIdeal}, {14, 17, WindowSecondary}},
	"cinema":     {{19, 22, WindowIdeal}, {13, 19, WindowSecondary}},
	"museum":     {{10, 16, WindowIdeal}, {16, 18, WindowSecondary}},
	"gallery":    {{11, 17, WindowIdeal}, {17, 19, WindowSecondary}},
	"bookstore":  {{10, 18, WindowIdeal}, {18, 20, WindowSecondary}},
	"park":       {{8, 18, WindowIdeal}, {6, 8, WindowSecondary}, {18, 20, WindowSecondary}},
	"hiking":     {{7, 12, WindowIdeal}, {12, 16, WindowSecondary}},
	"climbing":   {{9, 21, WindowSecondary}, {17, 20, WindowIdeal}},
	"gym":        {{6, 9, WindowIdeal}, {17, 20, WindowIdeal}, {9, 17, WindowSecondary}},
	"yoga":       {{6, 9, WindowIdeal}, {17, 20, WindowSecondary}},
	"spa":        {{10, 18, WindowIdeal}, {18, 20, WindowSecondary}},
	"market":     {{9, 14, WindowIdeal}, {14, 17, WindowSecondary}},
	"shopping":   {{10, 19, WindowIdeal}, {19, 21, WindowSecondary}},
	"arcade":     {{15, 22, WindowIdeal}, {12, 15, WindowSecondary}},
}

// RelatedTo reports whether two categories are related in the taxonomy.
// Comparison is case-insensitive and symmetric. A category is not related
// to itself; exact matches are scored by the interest tiers instead.
func RelatedTo(a, b string) bool {
	na, nb := NormalizeCategory(a), NormalizeCategory(b)
	if na == "" || nb == "" || na == nb {
		return false
	}
	for _, r := range relatedCategories[na] {
		if r == nb {
			return true
		}
	}
	for _, r := range relatedCategories[nb] {
		if r == na {
			return true
		}
	}
	return false
}

// WindowQualityFor classifies the hour for the category. KnownCategory is
// false when the taxonomy has no windows for the category, in which case
// the quality is meaningless and the scorer applies its neutral default.
func WindowQualityFor(category string, hour int) (quality WindowQuality, knownCategory bool) {
	windows, ok := categoryWindows[NormalizeCategory(category)]
	if !ok {
		return WindowOff, false
	}

	best := WindowOff
	for _, w := range windows {
		if !w.Contains(hour) {
			continue
		}
		if w.Quality > best {
			best = w.Quality
		}
	}
	return best, true
}

// KnownCategories returns the taxonomy categories with defined windows,
// primarily for tests and diagnostics.
func KnownCategories() []string {
	out := make([]string, 0, len(categoryWindows))
	for c := range categoryWindows {
		out = append(out, c)
	}
	return SortedCategorySet(out)
}
