package risen

import (
	"strings"
	"unicode"
)

// roleKeywords are the markers scanned for when lifting a persona out of a
// free-text request.
var roleKeywords = []string{"as a", "act as", "you are", "expert", "specialist"}

// Convert decomposes a natural-language request into RISEN shape using
// keyword heuristics. It is deliberately not an LLM call and it never
// persists anything; the caller decides whether the result becomes a
// template.
func Convert(request, context string) Template {
	role := "Expert assistant"
	expectations := "Clear, comprehensive, and actionable output"

	// Lift a role from the first persona keyword, reading up to the next
	// sentence boundary.
	lower := strings.ToLower(request)
	for _, keyword := range roleKeywords {
		start := strings.Index(lower, keyword)
		if start < 0 {
			continue
		}
		end := strings.Index(request[start:], ".")
		if end <= 0 {
			continue
		}
		fragment := request[start : start+end]
		role = strings.TrimSpace(strings.Replace(fragment, keyword, "", 1))
		break
	}

	var steps []string
	switch {
	case strings.Contains(request, "analyze"):
		steps = []string{
			"Examine the provided information thoroughly",
			"Identify key patterns and insights",
			"Draw conclusions based on analysis",
		}
	case strings.Contains(request, "write"), strings.Contains(request, "create"):
		steps = []string{
			"Plan the structure and key points",
			"Develop the main content",
			"Review and refine for clarity",
		}
	default:
		steps = []string{
			"Understand the requirement",
			"Process the information",
			"Provide comprehensive response",
		}
	}

	if context != "" {
		expectations += ". " + context
	}

	return Template{
		Role:         capitalize(role),
		Instructions: request,
		Steps:        steps,
		Expectations: expectations,
		Narrowing:    "Focus on practical solutions",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
