package risen

import (
	"strings"
	"testing"
)

// wellFormed returns a template that passes every validation rule.
func wellFormed() Template {
	return Template{
		Role:         "Senior software engineer with years of experience",
		Instructions: "Review the provided code for quality and security issues",
		Steps:        []string{"Read the code carefully", "Write up the findings"},
		Expectations: "Detailed, actionable review notes",
		Narrowing:    "Focus on critical issues first",
	}
}

func TestValidateWellFormed(t *testing.T) {
	v := Validate(wellFormed())

	if !v.Valid {
		t.Fatalf("expected valid, got errors %v", v.Errors)
	}
	if len(v.Errors) != 0 {
		t.Errorf("Errors = %v, want none", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", v.Warnings)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Template)
		keyword string
	}{
		{
			name:    "short role",
			mutate:  func(tm *Template) { tm.Role = "X" },
			keyword: "Role",
		},
		{
			name:    "whitespace role",
			mutate:  func(tm *Template) { tm.Role = strings.Repeat(" ", 20) },
			keyword: "Role",
		},
		{
			name:    "short instructions",
			mutate:  func(tm *Template) { tm.Instructions = "do it" },
			keyword: "Instructions",
		},
		{
			name:    "short expectations",
			mutate:  func(tm *Template) { tm.Expectations = "good" },
			keyword: "Expectations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := wellFormed()
			tt.mutate(&tmpl)

			v := Validate(tmpl)
			if v.Valid {
				t.Fatal("expected invalid")
			}
			found := false
			for _, e := range v.Errors {
				if strings.Contains(e, tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error mentioning %q in %v", tt.keyword, v.Errors)
			}
		})
	}
}

func TestValidateWarningsDoNotAffectValidity(t *testing.T) {
	tmpl := wellFormed()
	tmpl.Steps = []string{"only one step here"}
	tmpl.Narrowing = "short"

	v := Validate(tmpl)
	if !v.Valid {
		t.Fatalf("warnings must not invalidate, got errors %v", v.Errors)
	}
	if len(v.Warnings) != 2 {
		t.Errorf("Warnings = %v, want step-count and narrowing warnings", v.Warnings)
	}
}

func TestValidateVariableCrossCheck(t *testing.T) {
	tmpl := wellFormed()
	tmpl.Instructions = "Write an engaging post about {{topic}} for readers"
	tmpl.Variables = []string{"audience"}

	v := Validate(tmpl)

	var usedNotDeclared, declaredNotUsed bool
	for _, w := range v.Warnings {
		if strings.Contains(w, "{{topic}}") && strings.Contains(w, "used but not declared") {
			usedNotDeclared = true
		}
		if strings.Contains(w, "{{audience}}") && strings.Contains(w, "declared but not used") {
			declaredNotUsed = true
		}
	}
	if !usedNotDeclared {
		t.Errorf("missing used-but-not-declared warning in %v", v.Warnings)
	}
	if !declaredNotUsed {
		t.Errorf("missing declared-but-not-used warning in %v", v.Warnings)
	}
	if !v.Valid {
		t.Errorf("variable cross-check warnings must not invalidate, errors %v", v.Errors)
	}
}

func TestValidatePlaceholdersInStepsAreScanned(t *testing.T) {
	tmpl := wellFormed()
	tmpl.Steps = []string{"Load the {{dataset}} file", "Summarize the results"}

	v := Validate(tmpl)
	found := false
	for _, w := range v.Warnings {
		if strings.Contains(w, "{{dataset}}") {
			found = true
		}
	}
	if !found {
		t.Errorf("placeholder in steps not reported, warnings %v", v.Warnings)
	}
}

// Adding required content only removes errors, never adds new ones.
func TestValidateMonotonicity(t *testing.T) {
	broken := Template{Role: "X", Instructions: "y", Expectations: "z"}
	before := Validate(broken)
	if before.Valid {
		t.Fatal("expected initial template to be invalid")
	}

	fixed := broken
	fixed.Role = "Experienced reviewer"
	after := Validate(fixed)

	if len(after.Errors) >= len(before.Errors) {
		t.Errorf("fixing role should reduce errors: before %d, after %d",
			len(before.Errors), len(after.Errors))
	}
	for _, e := range after.Errors {
		found := false
		for _, b := range before.Errors {
			if e == b {
				found = true
			}
		}
		if !found {
			t.Errorf("new error appeared after fixing a field: %q", e)
		}
	}
}

func TestValidateScoreAlwaysComputed(t *testing.T) {
	v := Validate(Template{Role: "X"})
	if v.Valid {
		t.Fatal("expected invalid")
	}
	if v.Score < 0 || v.Score > 100 {
		t.Errorf("Score = %d, want 0..100", v.Score)
	}
}
