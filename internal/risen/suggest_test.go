package risen

import (
	"strings"
	"testing"
)

func componentsOf(suggestions []Suggestion) map[string]int {
	counts := make(map[string]int)
	for _, s := range suggestions {
		counts[s.Component]++
	}
	return counts
}

func TestSuggest(t *testing.T) {
	tmpl := Template{
		Role:         "Helper",
		Instructions: "Write a summary of the provided document",
		Steps:        []string{"Read", "Write"},
		Expectations: "A good summary",
		Narrowing:    "Be brief",
	}

	got := componentsOf(Suggest(tmpl))

	// Every rule fires: short role, no placeholder in instructions, fewer
	// than 3 steps plus brief steps, no numeric expectation, short narrowing.
	if got["role"] != 1 {
		t.Errorf("role suggestions = %d, want 1", got["role"])
	}
	if got["instructions"] != 1 {
		t.Errorf("instructions suggestions = %d, want 1", got["instructions"])
	}
	if got["steps"] != 2 {
		t.Errorf("steps suggestions = %d, want 2", got["steps"])
	}
	if got["expectations"] != 1 {
		t.Errorf("expectations suggestions = %d, want 1", got["expectations"])
	}
	if got["narrowing"] != 1 {
		t.Errorf("narrowing suggestions = %d, want 1", got["narrowing"])
	}
}

func TestSuggestQuietForStrongTemplate(t *testing.T) {
	tmpl := Template{
		Role:         "Senior software engineer with 15 years of experience",
		Instructions: "Review the {{code_snippet}} for quality and security",
		Steps: []string{
			"Analyze code structure and organization",
			"Check for potential bugs and edge cases",
			"Suggest improvements and best practices",
		},
		Expectations: "Detailed review with at least 5 actionable suggestions",
		Narrowing:    "Focus on critical issues before style nits",
	}

	if got := Suggest(tmpl); len(got) != 0 {
		t.Errorf("Suggest() = %v, want none", got)
	}
}

func TestSuggestEnhanced(t *testing.T) {
	tmpl := Template{
		Role:  "Helper",
		Steps: []string{"Analyze the full dataset for statistically significant trends"},
	}

	tests := []struct {
		name    string
		stats   Stats
		keyword string
	}{
		{
			name:    "low rating flags vagueness",
			stats:   Stats{AverageRating: 2.5, HasRatings: true},
			keyword: "too vague",
		},
		{
			name:    "heavy use without ratings flags feedback",
			stats:   Stats{Uses: 11},
			keyword: "gather user feedback",
		},
		{
			name:    "heavy use with moderate rating flags feedback",
			stats:   Stats{Uses: 11, AverageRating: 3.5, HasRatings: true},
			keyword: "gather user feedback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestEnhanced(tmpl, tt.stats)
			found := false
			for _, s := range got {
				if strings.Contains(s, tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("no suggestion containing %q in %v", tt.keyword, got)
			}
		})
	}
}

func TestSuggestEnhancedBriefRole(t *testing.T) {
	tmpl := Template{Role: "Just a short role here"}
	got := SuggestEnhanced(tmpl, Stats{})
	found := false
	for _, s := range got {
		if strings.Contains(s, "Role is very brief") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected brief-role suggestion, got %v", got)
	}
}

func TestSuggestEnhancedBriefSteps(t *testing.T) {
	tmpl := Template{
		Role:  "Expert content strategist with a decade of SEO experience",
		Steps: []string{"Do it"},
	}
	got := SuggestEnhanced(tmpl, Stats{})
	found := false
	for _, s := range got {
		if strings.Contains(s, "complete, actionable instruction") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected brief-step suggestion, got %v", got)
	}
}

func TestRoleExample(t *testing.T) {
	before, after := RoleExample("Content strategist")
	if before != "Content strategist" {
		t.Errorf("before = %q", before)
	}
	if !strings.HasPrefix(after, "Senior expert ") {
		t.Errorf("after = %q, want Senior expert prefix", after)
	}

	_, after = RoleExample("An expert in databases")
	if strings.Contains(after, "expert expert") {
		t.Errorf("expert duplicated: %q", after)
	}

	long := strings.Repeat("x", 80)
	before, _ = RoleExample(long)
	if len(before) != 50 {
		t.Errorf("long role should be truncated to 50, got %d", len(before))
	}
}
