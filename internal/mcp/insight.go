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

// SearchInput defines the arguments of the risen_search tool.
type SearchInput struct {
	Query     string   `json:"query,omitempty" jsonschema:"Search query"`
	Tags      []string `json:"tags,omitempty" jsonschema:"Filter by tags"`
	MinRating float64  `json:"min_rating,omitempty" jsonschema:"Minimum average rating"`
	Offset    int      `json:"offset,omitempty" jsonschema:"Pagination offset (starting record)"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Number of results per page (max 100)"`
}

// Search handles the risen_search tool call.
func (s *Server) Search(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	res, err := s.store.Search(ctx, store.SearchFilter{
		Query:     in.Query,
		Tags:      in.Tags,
		MinRating: in.MinRating,
		Offset:    in.Offset,
		Limit:     in.Limit,
	})
	if err != nil {
		return s.failure("risen_search", err), nil, nil
	}

	if len(res.Templates) == 0 && res.TotalCount == 0 {
		return textResult("❌ No templates found matching your criteria"), nil, nil
	}

	entries := make([]string, len(res.Templates))
	for i, t := range res.Templates {
		entries[i] = fmt.Sprintf("📝 %s (ID: %s)\n   %s\n   ⭐ Rating: %s | 🔧 Uses: %d | 🏷️ Tags: %s",
			t.Name, t.ID, t.Description, avgRatingDisplay(&t), t.Uses, strings.Join(t.Tags, ", "))
	}

	return textResult(fmt.Sprintf("🔍 Found %d templates (showing %d):\n\n%s\n\n%s",
		res.TotalCount, len(res.Templates),
		strings.Join(entries, "\n\n"),
		pageFooter(res.Offset, res.Limit, len(res.Templates), res.TotalCount))), nil, nil
}

// AnalyzeInput defines the arguments of the risen_analyze tool.
type AnalyzeInput struct {
	TemplateID string `json:"template_id" jsonschema:"Template ID to analyze"`
	Offset     int    `json:"offset,omitempty" jsonschema:"Pagination offset for experiments"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Number of experiments per page (max 50)"`
}

// Analyze handles the risen_analyze tool call: paginated experiment history,
// per-model rating aggregation, quality score and recommendations.
func (s *Server) Analyze(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, any, error) {
	tmpl, err := s.store.GetByID(ctx, in.TemplateID)
	if errors.Is(err, store.ErrTemplateNotFound) {
		return textResult("❌ Template not found"), nil, nil
	}
	if err != nil {
		return s.failure("risen_analyze", err), nil, nil
	}

	page, err := s.store.ExperimentsFor(ctx, in.TemplateID, in.Offset, in.Limit)
	if err != nil {
		return s.failure("risen_analyze", err), nil, nil
	}

	modelAnalysis := analyzeByModel(page.Experiments)
	if modelAnalysis == "" {
		modelAnalysis = "No model-specific data yet"
	}

	var notes []string
	for _, e := range page.Experiments {
		if e.Notes != "" {
			notes = append(notes, e.Notes)
		}
	}
	feedback := "   No feedback notes yet"
	if len(notes) > 0 {
		shown := notes
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for i, n := range shown {
			shown[i] = "   • " + n
		}
		feedback = strings.Join(shown, "\n")
	}

	var recommendations []string
	if avg, ok := tmpl.AverageRating(); ok && avg < 3 {
		recommendations = append(recommendations, "   • Consider refining the prompt structure")
	}
	if tmpl.Uses < 5 {
		recommendations = append(recommendations, "   • Need more usage data for reliable insights")
	}
	if len(notes) < 3 {
		recommendations = append(recommendations, "   • Encourage users to leave feedback notes")
	}

	currentPage := page.Offset/page.Limit + 1
	totalPages := (page.TotalCount + page.Limit - 1) / page.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Template Analysis: %s\n\n", tmpl.Name)
	fmt.Fprintf(&b, "📈 Overall Performance:\n   Total Uses: %d\n   Average Rating: %s ⭐\n   Total Ratings: %d\n   Total Experiments: %d\n\n",
		tmpl.Uses, avgRatingDisplay(tmpl), tmpl.RatingCount, page.TotalCount)
	fmt.Fprintf(&b, "🤖 Performance by AI Model:\n   %s\n\n", modelAnalysis)
	fmt.Fprintf(&b, "💬 Recent Feedback (Page %d of %d):\n%s\n\n", currentPage, totalPages, feedback)
	fmt.Fprintf(&b, "🎯 Quality Score: %d/100\n\n", risen.Score(*tmpl))
	fmt.Fprintf(&b, "💡 Recommendations:\n%s", strings.Join(recommendations, "\n"))
	if page.Offset+page.Limit < page.TotalCount {
		fmt.Fprintf(&b, "\n\n➡️ Use offset: %d to see more experiments", page.Offset+page.Limit)
	}

	return textResult(b.String()), nil, nil
}

// analyzeByModel aggregates ratings by AI model over the current page of
// experiments.
func analyzeByModel(experiments []risen.Experiment) string {
	type stat struct {
		count int
		total int
	}
	stats := make(map[string]*stat)
	var order []string
	for _, e := range experiments {
		model := e.AIModel
		if model == "" {
			model = "claude"
		}
		if stats[model] == nil {
			stats[model] = &stat{}
			order = append(order, model)
		}
		stats[model].count++
		stats[model].total += e.Rating
	}

	lines := make([]string, len(order))
	for i, model := range order {
		st := stats[model]
		lines[i] = fmt.Sprintf("%s: %.1f avg (%d uses)", model, float64(st.total)/float64(st.count), st.count)
	}
	return strings.Join(lines, "\n   ")
}

// SuggestInput defines the arguments of the risen_suggest tool.
type SuggestInput struct {
	TemplateID string `json:"template_id" jsonschema:"Template ID"`
}

// Suggest handles the risen_suggest tool call: component suggestions plus
// enhanced suggestions driven by usage statistics.
func (s *Server) Suggest(ctx context.Context, _ *mcp.CallToolRequest, in SuggestInput) (*mcp.CallToolResult, any, error) {
	tmpl, err := s.store.GetByID(ctx, in.TemplateID)
	if errors.Is(err, store.ErrTemplateNotFound) {
		return textResult("❌ Template not found"), nil, nil
	}
	if err != nil {
		return s.failure("risen_suggest", err), nil, nil
	}

	v := risen.Validate(*tmpl)
	suggestions := risen.Suggest(*tmpl)

	avg, hasRatings := tmpl.AverageRating()
	enhanced := risen.SuggestEnhanced(*tmpl, risen.Stats{
		Uses:          tmpl.Uses,
		AverageRating: avg,
		HasRatings:    hasRatings,
	})

	before, after := risen.RoleExample(tmpl.Role)

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Suggestions for %q\n\n", tmpl.Name)
	fmt.Fprintf(&b, "📊 Current Performance:\n   Quality Score: %d/100\n   Average Rating: %s ⭐\n   Total Uses: %d\n\n",
		v.Score, avgRatingDisplay(tmpl), tmpl.Uses)
	fmt.Fprintf(&b, "💡 Component Improvements:\n%s\n\n", formatSuggestions(suggestions))
	fmt.Fprintf(&b, "🚀 Enhanced Suggestions:\n%s\n\n", bulleted(enhanced))
	fmt.Fprintf(&b, "📝 Example Improvements:\n\n   BEFORE: %q\n   AFTER: %q\n\n", before+"...", after)
	b.WriteString("🎨 Pro Tips:\n" +
		"• Use specific numbers in expectations (e.g., \"5-7 actionable insights\")\n" +
		"• Include examples in narrowing (e.g., \"Avoid jargon, write at 8th grade level\")\n" +
		"• Test with different variable combinations to find what works best")

	return textResult(b.String()), nil, nil
}

// ConvertInput defines the arguments of the risen_convert tool.
type ConvertInput struct {
	Request string `json:"request" jsonschema:"Natural language request"`
	Context string `json:"context,omitempty" jsonschema:"Additional context"`
}

// Convert handles the risen_convert tool call. The result is shown, never
// persisted; saving it is a separate risen_create call.
func (s *Server) Convert(_ context.Context, _ *mcp.CallToolRequest, in ConvertInput) (*mcp.CallToolResult, any, error) {
	tmpl := risen.Convert(in.Request, in.Context)

	steps := make([]string, len(tmpl.Steps))
	for i, step := range tmpl.Steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, step)
	}

	return textResult(fmt.Sprintf(`🔄 Converted to RISEN format:

**Role**: %s

**Instructions**: %s

**Steps**:
%s

**Expectations**: %s

**Narrowing**: %s

💡 Tips for improvement:
• Refine the role to be more specific to your domain
• Add more detailed steps based on your workflow
• Include measurable expectations (e.g., word count, format)
• Adjust narrowing to focus on your priorities

Would you like to save this as a template?`,
		tmpl.Role, tmpl.Instructions, strings.Join(steps, "\n"),
		tmpl.Expectations, tmpl.Narrowing)), nil, nil
}
