package risen

import (
	"fmt"
	"regexp"
	"strings"
)

var digitRe = regexp.MustCompile(`\d+`)

// Suggestion is one improvement hint tied to a RISEN component.
type Suggestion struct {
	Component  string
	Suggestion string
}

// Stats carries the aggregate usage data consumed by SuggestEnhanced.
type Stats struct {
	Uses          int64
	AverageRating float64
	HasRatings    bool
}

// Suggest produces improvement hints from the template shape alone. The rules
// are independent heuristics; several can fire for the same template.
func Suggest(t Template) []Suggestion {
	var suggestions []Suggestion

	if t.Role != "" && len(t.Role) < 30 {
		suggestions = append(suggestions, Suggestion{
			Component:  "role",
			Suggestion: "Consider adding more specific expertise, years of experience, or domain knowledge to the role",
		})
	}

	if t.Instructions != "" && !strings.Contains(t.Instructions, "{{") {
		suggestions = append(suggestions, Suggestion{
			Component:  "instructions",
			Suggestion: "Consider using variables (e.g., {{topic}}) to make this template reusable",
		})
	}

	if len(t.Steps) < 3 {
		suggestions = append(suggestions, Suggestion{
			Component:  "steps",
			Suggestion: "Break down the task into more detailed steps for better AI guidance",
		})
	}
	for _, step := range t.Steps {
		if len(step) < 20 {
			suggestions = append(suggestions, Suggestion{
				Component:  "steps",
				Suggestion: "Some steps are too brief - add more detail for clarity",
			})
			break
		}
	}

	if t.Expectations != "" && !digitRe.MatchString(t.Expectations) {
		suggestions = append(suggestions, Suggestion{
			Component:  "expectations",
			Suggestion: "Consider adding specific metrics or measurable outcomes (e.g., word count, number of examples)",
		})
	}

	if len(t.Narrowing) < 20 {
		suggestions = append(suggestions, Suggestion{
			Component:  "narrowing",
			Suggestion: "Add constraints to focus the output or creative elements to encourage innovation",
		})
	}

	return suggestions
}

// SuggestEnhanced produces suggestions that fold in usage statistics on top
// of the template shape.
func SuggestEnhanced(t Template, stats Stats) []string {
	var suggestions []string

	if stats.HasRatings && stats.AverageRating < 3 {
		suggestions = append(suggestions,
			"Low ratings suggest the prompt may be too vague or complex. Consider simplifying.")
	}

	if stats.Uses > 10 && (!stats.HasRatings || stats.AverageRating < 4) {
		suggestions = append(suggestions,
			"With many uses but moderate ratings, gather user feedback to identify specific issues.")
	}

	if len(strings.Fields(t.Role)) < 8 {
		suggestions = append(suggestions,
			"Role is very brief. Try: 'Expert [domain] professional with [X] years experience in [specific areas], specialized in [unique skills]'")
	}

	for _, step := range t.Steps {
		if len(strings.Fields(step)) < 5 {
			suggestions = append(suggestions,
				"Some steps are too brief. Each step should be a complete, actionable instruction.")
			break
		}
	}

	return suggestions
}

// RoleExample builds the before/after example shown by the suggest tool.
func RoleExample(role string) (before, after string) {
	before = role
	if len(before) > 50 {
		before = before[:50]
	}
	expert := "expert "
	if strings.Contains(role, "expert") {
		expert = ""
	}
	after = fmt.Sprintf("Senior %s%s with deep knowledge of industry best practices and proven track record", expert, role)
	return before, after
}
