// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package recommend

import "testing"

func TestRelatedTo(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"coffee", "cafe", true},
		{"cafe", "coffee", true},
		{"coffee", "bakery", true},
		{"hiking", "park", true},
		{"coffee", "club", false},
		{"coffee", "coffee", false},
		{"Coffee", "CAFE", true},
		{"", "cafe", false},
		{"coffee", "", false},
		{"unknown-a", "unknown-b", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := RelatedTo(tt.a, tt.b); got != tt.want {
				t.Errorf("RelatedTo(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestRelatedToSymmetric verifies the relation is symmetric across the
// whole taxonomy, including entries only listed on one side.
func TestRelatedToSymmetric(t *testing.T) {
	cats := KnownCategories()
	for _, a := range cats {
		for _, b := range cats {
			if RelatedTo(a, b) != RelatedTo(b, a) {
				t.Errorf("RelatedTo(%q, %q) != RelatedTo(%q, %q)", a, b, b, a)
			}
		}
	}
}

func TestWindowQualityFor(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		hour      int
		want      WindowQuality
		wantKnown bool
	}{
		{"coffee_ideal", "coffee", 8, WindowIdeal, true},
		{"coffee_ideal_lower_bound", "coffee", 7, WindowIdeal, true},
		{"coffee_secondary", "coffee", 12, WindowSecondary, true},
		{"coffee_off", "coffee", 20, WindowOff, true},
		{"club_wraps_before_midnight", "club", 23, WindowIdeal, true},
		{"club_wraps_after_midnight", "club", 1, WindowIdeal, true},
		{"club_off_morning", "club", 9, WindowOff, true},
		{"case_insensitive", "  COFFEE ", 8, WindowIdeal, true},
		{"unknown_category", "escape-room", 12, WindowOff, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := WindowQualityFor(tt.category, tt.hour)
			if known != tt.wantKnown {
				t.Fatalf("WindowQualityFor(%q, %d) known = %v, want %v", tt.category, tt.hour, known, tt.wantKnown)
			}
			if got != tt.want {
				t.Errorf("WindowQualityFor(%q, %d) = %v, want %v", tt.category, tt.hour, got, tt.want)
			}
		})
	}
}

func TestHourWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window HourWindow
		hour   int
		want   bool
	}{
		{"inside", HourWindow{Start: 7, End: 10}, 8, true},
		{"at_start", HourWindow{Start: 7, End: 10}, 7, true},
		{"at_end_exclusive", HourWindow{Start: 7, End: 10}, 10, false},
		{"outside", HourWindow{Start: 7, End: 10}, 15, false},
		{"wrap_late", HourWindow{Start: 22, End: 2}, 23, true},
		{"wrap_early", HourWindow{Start: 22, End: 2}, 1, true},
		{"wrap_outside", HourWindow{Start: 22, End: 2}, 12, false},
		{"wrap_at_end_exclusive", HourWindow{Start: 22, End: 2}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Contains(tt.hour); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}
}

func TestWindowsCoverEveryKnownCategory(t *testing.T) {
	for _, cat := range KnownCategories() {
		found := false
		for hour := 0; hour < 24; hour++ {
			if q, known := WindowQualityFor(cat, hour); known && q != WindowOff {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("category %q has no ideal or secondary window", cat)
		}
	}
}
