package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/risen/internal/risen"
	"github.com/koopa0/risen/internal/store"
)

// CreateInput defines the arguments of the risen_create tool.
type CreateInput struct {
	Name         string   `json:"name" jsonschema:"Template name"`
	Description  string   `json:"description,omitempty" jsonschema:"Template description"`
	Role         string   `json:"role" jsonschema:"AI role/persona"`
	Instructions string   `json:"instructions" jsonschema:"Clear directives"`
	Steps        []string `json:"steps" jsonschema:"Task breakdown"`
	Expectations string   `json:"expectations" jsonschema:"Desired outcome"`
	Narrowing    string   `json:"narrowing,omitempty" jsonschema:"Constraints or creative elements"`
	Variables    []string `json:"variables,omitempty" jsonschema:"Template variables"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Tags for organization"`
}

// Create handles the risen_create tool call. Invalid templates are reported
// and never persisted.
func (s *Server) Create(ctx context.Context, _ *mcp.CallToolRequest, in CreateInput) (*mcp.CallToolResult, any, error) {
	tmpl := risen.Template{
		Name:         in.Name,
		Description:  in.Description,
		Role:         in.Role,
		Instructions: in.Instructions,
		Steps:        in.Steps,
		Expectations: in.Expectations,
		Narrowing:    in.Narrowing,
		Variables:    in.Variables,
		Tags:         in.Tags,
	}

	v := risen.Validate(tmpl)
	errs := append(s.limitErrors(tmpl), v.Errors...)

	if len(errs) > 0 {
		return textResult(fmt.Sprintf("❌ Validation failed:\n%s\n\n⚠️ Warnings:\n%s",
			strings.Join(errs, "\n"), strings.Join(v.Warnings, "\n"))), nil, nil
	}

	id, err := s.store.Create(ctx, tmpl)
	if err != nil {
		return s.failure("risen_create", err), nil, nil
	}

	report := fmt.Sprintf("✅ RISEN template created successfully!\n\nID: %s\nName: %s\nQuality Score: %d/100",
		id, in.Name, v.Score)
	if len(v.Warnings) > 0 {
		report += "\n\n⚠️ Suggestions:\n" + strings.Join(v.Warnings, "\n")
	}
	return textResult(report), nil, nil
}

// limitErrors checks a template against the configured size ceilings. These
// are operator-tunable hard errors on top of the structural rules.
func (s *Server) limitErrors(t risen.Template) []string {
	var errs []string
	over := func(what string, length, max int) {
		if length > max {
			errs = append(errs, fmt.Sprintf("%s exceeds the maximum of %d", what, max))
		}
	}
	over("Name length", len(t.Name), s.cfg.MaxNameLength)
	over("Description length", len(t.Description), s.cfg.MaxDescriptionLength)
	over("Instructions length", len(t.Instructions), s.cfg.MaxInstructionsLength)
	over("Expectations length", len(t.Expectations), s.cfg.MaxExpectationsLength)
	over("Narrowing length", len(t.Narrowing), s.cfg.MaxNarrowingLength)
	over("Step count", len(t.Steps), s.cfg.MaxStepsCount)
	over("Variable count", len(t.Variables), s.cfg.MaxVariablesCount)
	over("Tag count", len(t.Tags), s.cfg.MaxTagsCount)
	return errs
}

// InlineTemplate is the ad-hoc template shape accepted by risen_validate as
// an alternative to a stored template id.
type InlineTemplate struct {
	Role         string   `json:"role,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Steps        []string `json:"steps,omitempty"`
	Expectations string   `json:"expectations,omitempty"`
	Narrowing    string   `json:"narrowing,omitempty"`
}

// ValidateInput defines the arguments of the risen_validate tool.
type ValidateInput struct {
	TemplateID string          `json:"template_id,omitempty" jsonschema:"Template ID to validate"`
	Template   *InlineTemplate `json:"template,omitempty" jsonschema:"Or provide template directly"`
}

// Validate handles the risen_validate tool call.
func (s *Server) Validate(ctx context.Context, _ *mcp.CallToolRequest, in ValidateInput) (*mcp.CallToolResult, any, error) {
	var tmpl risen.Template
	switch {
	case in.TemplateID != "":
		stored, err := s.store.GetByID(ctx, in.TemplateID)
		if errors.Is(err, store.ErrTemplateNotFound) {
			return textResult("❌ Template not found"), nil, nil
		}
		if err != nil {
			return s.failure("risen_validate", err), nil, nil
		}
		tmpl = *stored
	case in.Template != nil:
		tmpl = risen.Template{
			Role:         in.Template.Role,
			Instructions: in.Template.Instructions,
			Steps:        in.Template.Steps,
			Expectations: in.Template.Expectations,
			Narrowing:    in.Template.Narrowing,
		}
	default:
		return textResult("❌ Provide either template_id or template object"), nil, nil
	}

	v := risen.Validate(tmpl)
	suggestions := risen.Suggest(tmpl)

	valid := "No"
	if v.Valid {
		valid = "Yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 RISEN Validation Report\n\n✅ Valid: %s\n📊 Quality Score: %d/100\n", valid, v.Score)
	if len(v.Errors) > 0 {
		b.WriteString("\n❌ Errors:\n" + bulleted(v.Errors) + "\n")
	}
	if len(v.Warnings) > 0 {
		b.WriteString("\n⚠️ Warnings:\n" + bulleted(v.Warnings) + "\n")
	}
	b.WriteString("\n💡 Improvement Suggestions:\n" + formatSuggestions(suggestions))

	return textResult(b.String()), nil, nil
}

func formatSuggestions(suggestions []risen.Suggestion) string {
	lines := make([]string, len(suggestions))
	for i, sg := range suggestions {
		lines[i] = fmt.Sprintf("• [%s] %s", strings.ToUpper(sg.Component), sg.Suggestion)
	}
	return strings.Join(lines, "\n")
}

// ExecuteInput defines the arguments of the risen_execute tool.
type ExecuteInput struct {
	TemplateID string            `json:"template_id" jsonschema:"Template ID"`
	Variables  map[string]string `json:"variables,omitempty" jsonschema:"Variables to fill in template"`
}

// Execute handles the risen_execute tool call. If any placeholder is left
// unresolved the execution aborts and the use counter stays untouched.
func (s *Server) Execute(ctx context.Context, _ *mcp.CallToolRequest, in ExecuteInput) (*mcp.CallToolResult, any, error) {
	tmpl, err := s.store.GetByID(ctx, in.TemplateID)
	if errors.Is(err, store.ErrTemplateNotFound) {
		return textResult("❌ Template not found"), nil, nil
	}
	if err != nil {
		return s.failure("risen_execute", err), nil, nil
	}

	final := *tmpl
	if len(in.Variables) > 0 {
		final = risen.Apply(*tmpl, in.Variables)
	}

	if missing := risen.Unresolved(final); len(missing) > 0 {
		return textResult(fmt.Sprintf("⚠️ Missing variables: %s\n\nPlease provide values for all variables.",
			strings.Join(missing, ", "))), nil, nil
	}

	prompt := risen.FormatPrompt(final)

	if err := s.store.IncrementUse(ctx, in.TemplateID); err != nil {
		return s.failure("risen_execute", err), nil, nil
	}

	return textResult(fmt.Sprintf("📝 RISEN Prompt Ready:\n\n%s\n\n✅ Template %q executed (%d total uses)",
		prompt, tmpl.Name, tmpl.Uses+1)), nil, nil
}

// TrackInput defines the arguments of the risen_track tool.
type TrackInput struct {
	TemplateID     string            `json:"template_id" jsonschema:"Template ID"`
	ExecutedPrompt string            `json:"executed_prompt,omitempty" jsonschema:"The executed prompt"`
	VariablesUsed  map[string]string `json:"variables_used,omitempty" jsonschema:"Variables that were used"`
	AIModel        string            `json:"ai_model,omitempty" jsonschema:"Which AI model was used"`
	Response       string            `json:"response,omitempty" jsonschema:"AI response (truncated if needed)"`
	Rating         int               `json:"rating" jsonschema:"Rating 1-5"`
	Notes          string            `json:"notes,omitempty" jsonschema:"Additional notes"`
}

// Track handles the risen_track tool call: it appends an experiment row and
// folds the rating into the template aggregate in one transaction.
func (s *Server) Track(ctx context.Context, _ *mcp.CallToolRequest, in TrackInput) (*mcp.CallToolResult, any, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return textResult("❌ Rating must be between 1 and 5"), nil, nil
	}

	tmpl, err := s.store.GetByID(ctx, in.TemplateID)
	if errors.Is(err, store.ErrTemplateNotFound) {
		return textResult("❌ Template not found"), nil, nil
	}
	if err != nil {
		return s.failure("risen_track", err), nil, nil
	}

	model := in.AIModel
	if model == "" {
		model = "claude"
	}

	_, err = s.store.InsertExperiment(ctx, risen.Experiment{
		TemplateID:     in.TemplateID,
		ExecutedPrompt: in.ExecutedPrompt,
		VariablesUsed:  in.VariablesUsed,
		AIModel:        model,
		Response:       truncate(in.Response, s.cfg.MaxResponseSize),
		Rating:         in.Rating,
		Notes:          in.Notes,
	})
	if err != nil {
		return s.failure("risen_track", err), nil, nil
	}

	avg, count, err := s.store.RecordRating(ctx, in.TemplateID, in.Rating)
	if err != nil {
		return s.failure("risen_track", err), nil, nil
	}

	report := fmt.Sprintf("📊 Experiment tracked!\n\nTemplate: %s\nRating: %s\nAverage Rating: %.1f (%d ratings)\nAI Model: %s",
		tmpl.Name, strings.Repeat("⭐", in.Rating), avg, count, model)
	if in.Notes != "" {
		report += "\nNotes: " + in.Notes
	}
	return textResult(report), nil, nil
}
