package risen

import (
	"fmt"
	"strings"
)

// Structural thresholds. The validator checks trimmed lengths; the scorer
// intentionally checks raw lengths (see score.go).
const (
	minRoleLength         = 10
	minInstructionsLength = 20
	minExpectationsLength = 15
	minNarrowingLength    = 10
	minStepCount          = 2
)

// Validation is the outcome of checking a template's structural completeness.
// Warnings never affect Valid; only Errors do. Score is always computed.
type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Score    int
}

// Validate checks a template against the RISEN structural rules.
func Validate(t Template) Validation {
	var errs, warnings []string

	if len(strings.TrimSpace(t.Role)) < minRoleLength {
		errs = append(errs, "Role must be at least 10 characters and clearly define the AI's persona")
	}
	if len(strings.TrimSpace(t.Instructions)) < minInstructionsLength {
		errs = append(errs, "Instructions must be at least 20 characters and provide clear directives")
	}
	if len(t.Steps) < minStepCount {
		warnings = append(warnings, "Consider adding more steps for better task breakdown")
	}
	if len(strings.TrimSpace(t.Expectations)) < minExpectationsLength {
		errs = append(errs, "Expectations must clearly define the desired outcome (min 15 chars)")
	}
	if len(strings.TrimSpace(t.Narrowing)) < minNarrowingLength {
		warnings = append(warnings, "Narrowing/Novelty helps focus or expand the task - consider adding constraints or creative elements")
	}

	// Cross-check declared variables against placeholders actually used.
	texts := []string{t.Role, t.Instructions, t.Expectations, t.Narrowing}
	texts = append(texts, t.Steps...)
	used := Placeholders(texts...)

	usedSet := make(map[string]bool, len(used))
	for _, v := range used {
		usedSet[v] = true
	}
	declaredSet := make(map[string]bool, len(t.Variables))
	for _, v := range t.Variables {
		declaredSet[v] = true
	}

	for _, v := range used {
		if !declaredSet[v] {
			warnings = append(warnings, fmt.Sprintf("Variable {{%s}} is used but not declared", v))
		}
	}
	for _, v := range t.Variables {
		if !usedSet[v] {
			warnings = append(warnings, fmt.Sprintf("Variable {{%s}} is declared but not used", v))
		}
	}

	return Validation{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Score:    Score(t),
	}
}
