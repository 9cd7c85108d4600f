package risen

import (
	"regexp"
	"strings"
)

// placeholderRe matches {{name}} markers. Names are word characters only;
// anything else between braces is not a placeholder.
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Placeholders returns the placeholder names found across the given texts,
// deduplicated, in order of first appearance.
func Placeholders(texts ...string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				names = append(names, m[1])
			}
		}
	}
	return names
}

// Substitute replaces every occurrence of {{name}} in text with value.
// Matching is literal and case-sensitive.
func Substitute(text, name, value string) string {
	return strings.ReplaceAll(text, "{{"+name+"}}", value)
}

// Apply substitutes every variable in vars into all free-text fields and
// every step. It returns a copy; the input template is not mutated.
func Apply(t Template, vars map[string]string) Template {
	out := t
	out.Steps = make([]string, len(t.Steps))
	copy(out.Steps, t.Steps)

	for name, value := range vars {
		out.Role = Substitute(out.Role, name, value)
		out.Instructions = Substitute(out.Instructions, name, value)
		out.Expectations = Substitute(out.Expectations, name, value)
		out.Narrowing = Substitute(out.Narrowing, name, value)
		for i, step := range out.Steps {
			out.Steps[i] = Substitute(step, name, value)
		}
	}
	return out
}

// Unresolved re-scans all template fields and reports placeholders that
// survived substitution. A non-empty result means the template is not ready
// for execution.
func Unresolved(t Template) []string {
	texts := []string{t.Role, t.Instructions, t.Expectations, t.Narrowing}
	texts = append(texts, t.Steps...)
	return Placeholders(texts...)
}
