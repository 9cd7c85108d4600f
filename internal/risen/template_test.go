package risen

import (
	"strings"
	"testing"
)

func TestFormatPrompt(t *testing.T) {
	tmpl := Template{
		Role:         "Reviewer",
		Instructions: "Review the code",
		Steps:        []string{"Read it", "Comment on it"},
		Expectations: "Findings",
		Narrowing:    "Be terse",
	}

	got := FormatPrompt(tmpl)

	for _, want := range []string{
		"Role: Reviewer",
		"Instructions: Review the code",
		"1. Read it",
		"2. Comment on it",
		"Expectations: Findings",
		"Narrowing: Be terse",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatPrompt() missing %q:\n%s", want, got)
		}
	}
}

func TestAverageRating(t *testing.T) {
	tmpl := Template{TotalRating: 8, RatingCount: 2}
	avg, ok := tmpl.AverageRating()
	if !ok || avg != 4.0 {
		t.Errorf("AverageRating() = %v, %v; want 4.0, true", avg, ok)
	}

	empty := Template{}
	if _, ok := empty.AverageRating(); ok {
		t.Error("AverageRating() on unrated template should report no ratings")
	}
}
