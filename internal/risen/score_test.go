package risen

import (
	"strings"
	"testing"
)

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
		want int
	}{
		{
			name: "empty template",
			tmpl: Template{},
			want: 0,
		},
		{
			name: "maximum score",
			tmpl: Template{
				Role:         strings.Repeat("r", 51),
				Instructions: strings.Repeat("i", 40) + " about {{topic}} today",
				Steps:        []string{"a", "b", "c", "d", "e"},
				Expectations: strings.Repeat("e", 39) + " 1500 words",
				Narrowing:    strings.Repeat("n", 25) + " and avoid jargon",
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.tmpl)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score() = %d outside 0..100", got)
			}
		})
	}
}

func TestScoreThresholds(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
		want int
	}{
		{"role at 30 chars scores nothing", Template{Role: strings.Repeat("r", 30)}, 0},
		{"role over 30 chars", Template{Role: strings.Repeat("r", 31)}, 10},
		{"role over 50 chars", Template{Role: strings.Repeat("r", 51)}, 20},
		{"instructions over 50 chars", Template{Instructions: strings.Repeat("i", 51)}, 10},
		{"instructions with placeholder", Template{Instructions: "cover {{topic}}"}, 10},
		{"two steps score nothing", Template{Steps: []string{"a", "b"}}, 0},
		{"three steps", Template{Steps: []string{"a", "b", "c"}}, 10},
		{"five steps", Template{Steps: []string{"a", "b", "c", "d", "e"}}, 20},
		{"expectations with number", Template{Expectations: "include 3 examples"}, 10},
		{"expectations over 40 chars", Template{Expectations: strings.Repeat("e", 41)}, 10},
		{"narrowing with focus keyword", Template{Narrowing: "focus on basics"}, 10},
		{"narrowing with avoid keyword", Template{Narrowing: "avoid jargon"}, 10},
		{"narrowing over 30 chars", Template{Narrowing: strings.Repeat("n", 31)}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.tmpl); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

// The scorer uses raw lengths; padding with whitespace counts, unlike the
// validator's trimmed checks.
func TestScoreUsesRawLength(t *testing.T) {
	padded := Template{Role: "short" + strings.Repeat(" ", 30)}
	if got := Score(padded); got != 10 {
		t.Errorf("Score() with padded role = %d, want 10", got)
	}
}

func TestScoreIsPure(t *testing.T) {
	tmpl := Template{
		Role:         "Data scientist specializing in churn analysis",
		Instructions: "Analyze the {{dataset}} for trends and anomalies",
		Steps:        []string{"Explore", "Test", "Report"},
		Expectations: "At least 5 insights with statistical backing",
		Narrowing:    "Focus on actionable findings",
	}
	first := Score(tmpl)
	for range 10 {
		if got := Score(tmpl); got != first {
			t.Fatalf("Score() not deterministic: %d then %d", first, got)
		}
	}
}
