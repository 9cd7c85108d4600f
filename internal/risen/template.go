// Package risen implements the RISEN prompt-template model and the pure
// operations over it: placeholder substitution, structural validation,
// quality scoring, improvement suggestions, and natural-language conversion.
//
// RISEN is the five-part template shape this server manages:
// Role, Instructions, Steps, Expectations, Narrowing.
//
// Nothing in this package touches storage. Templates arrive here already
// decoded (steps, variables and tags are typed slices); the serialized
// representation is a storage concern, see internal/store.
package risen

import (
	"fmt"
	"strings"
	"time"
)

// Template is a parameterizable prompt specification plus its usage counters.
type Template struct {
	ID           string
	Name         string
	Description  string
	Role         string
	Instructions string
	Steps        []string
	Expectations string
	Narrowing    string
	Variables    []string
	Tags         []string

	Uses        int64
	TotalRating int64
	RatingCount int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageRating returns the derived average rating and whether any ratings
// exist. The average is never stored; it is always total/count.
func (t *Template) AverageRating() (float64, bool) {
	if t.RatingCount == 0 {
		return 0, false
	}
	return float64(t.TotalRating) / float64(t.RatingCount), true
}

// Experiment is one recorded execution outcome linked to a template.
// Experiments are append-only.
type Experiment struct {
	ID             string
	TemplateID     string
	ExecutedPrompt string
	VariablesUsed  map[string]string
	AIModel        string
	Response       string
	Rating         int
	Notes          string
	CreatedAt      time.Time
}

// FormatPrompt renders the template as the final prompt text with
// numbered steps.
func FormatPrompt(t Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\n", t.Role)
	fmt.Fprintf(&b, "Instructions: %s\n\n", t.Instructions)
	b.WriteString("Steps:\n")
	for i, step := range t.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "\nExpectations: %s\n\n", t.Expectations)
	fmt.Fprintf(&b, "Narrowing: %s", t.Narrowing)
	return b.String()
}
