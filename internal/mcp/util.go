package mcp

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/risen/internal/risen"
)

// genericFailure is the only message clients see for unexpected internal
// faults. Suppressing detail is deliberate; full context goes to the log.
const genericFailure = "An unexpected error occurred. Please try again later."

// textResult builds the success-shaped text payload every tool returns.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// failure logs the full error and returns the generic user-visible message.
// Error detail is appended only when the config toggle allows it, never in
// production.
func (s *Server) failure(tool string, err error) *mcp.CallToolResult {
	s.logger.Error("tool handler error", "tool", tool, "error", err)
	if s.cfg.ExposeErrorDetails() {
		return textResult(fmt.Sprintf("%s\n\nDetail: %v", genericFailure, err))
	}
	return textResult(genericFailure)
}

// avgRatingDisplay renders the derived average rating or "N/A" for unrated
// templates.
func avgRatingDisplay(t *risen.Template) string {
	avg, ok := t.AverageRating()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", avg)
}

// bulleted renders lines as a bullet list, one per line.
func bulleted(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "• " + line
	}
	return strings.Join(out, "\n")
}

// pageFooter renders the pagination trailer shared by search and analyze.
func pageFooter(offset, limit, shown, total int) string {
	currentPage := offset/limit + 1
	totalPages := (total + limit - 1) / limit
	footer := fmt.Sprintf("📄 Page %d of %d | Showing %d-%d of %d results",
		currentPage, totalPages, offset+1, offset+shown, total)
	if offset+limit < total {
		footer += fmt.Sprintf("\n\n➡️ Use offset: %d for next page", offset+limit)
	}
	return footer
}

// truncate caps s at max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
