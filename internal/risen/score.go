package risen

import "strings"

// Score computes the deterministic 0-100 quality score. Each RISEN component
// contributes up to 20 points.
//
// Length checks here operate on the raw field text, not the trimmed text the
// validator uses; trimming here would shift scores for stored templates.
func Score(t Template) int {
	score := 0

	// Role quality (20 points)
	if len(t.Role) > 30 {
		score += 10
	}
	if len(t.Role) > 50 {
		score += 10
	}

	// Instructions clarity (20 points)
	if len(t.Instructions) > 50 {
		score += 10
	}
	if strings.Contains(t.Instructions, "{{") {
		score += 10
	}

	// Steps detail (20 points)
	if len(t.Steps) >= 3 {
		score += 10
	}
	if len(t.Steps) >= 5 {
		score += 10
	}

	// Expectations specificity (20 points)
	if len(t.Expectations) > 40 {
		score += 10
	}
	if digitRe.MatchString(t.Expectations) {
		score += 10
	}

	// Narrowing focus (20 points)
	if len(t.Narrowing) > 30 {
		score += 10
	}
	if strings.Contains(t.Narrowing, "avoid") || strings.Contains(t.Narrowing, "focus") {
		score += 10
	}

	return score
}
