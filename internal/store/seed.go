package store

import (
	"context"
	"errors"

	"github.com/koopa0/risen/internal/risen"
)

// defaultTemplates are created on first run so a fresh database is usable
// immediately. Seeding is idempotent: an existing template with the same
// name is skipped.
var defaultTemplates = []risen.Template{
	{
		Name:         "Code Review",
		Description:  "Comprehensive code review template",
		Role:         "Senior software engineer with 15+ years of experience in code quality and best practices",
		Instructions: "Review the provided code for quality, performance, security, and maintainability",
		Steps: []string{
			"Analyze code structure and organization",
			"Check for potential bugs and edge cases",
			"Evaluate performance implications",
			"Review security vulnerabilities",
			"Suggest improvements and best practices",
		},
		Expectations: "Detailed review with specific line-by-line feedback and actionable suggestions",
		Narrowing:    "Focus on critical issues first, then style and minor improvements",
		Variables:    []string{"code_snippet", "programming_language", "context"},
		Tags:         []string{"development", "code-review", "quality"},
	},
	{
		Name:         "Blog Post Writer",
		Description:  "SEO-optimized blog post creation",
		Role:         "Content strategist and SEO expert with proven track record in {{industry}}",
		Instructions: "Write an engaging blog post about {{topic}} targeting {{audience}}",
		Steps: []string{
			"Research keywords and current trends",
			"Create compelling headline and introduction",
			"Develop main points with examples",
			"Include relevant statistics and sources",
			"Write conclusion with call-to-action",
		},
		Expectations: "1500-2000 word blog post, SEO-optimized, engaging tone, well-researched",
		Narrowing:    "Use conversational tone, include 3-5 keywords naturally, target readability score of 60+",
		Variables:    []string{"topic", "audience", "industry", "keywords"},
		Tags:         []string{"content", "blog", "seo", "writing"},
	},
	{
		Name:         "Data Analysis",
		Description:  "Comprehensive data analysis and insights",
		Role:         "Data scientist specializing in {{domain}} with expertise in statistical analysis",
		Instructions: "Analyze the {{dataset_description}} to uncover insights and patterns",
		Steps: []string{
			"Perform exploratory data analysis",
			"Identify key trends and patterns",
			"Run statistical significance tests",
			"Create visualizations for findings",
			"Provide actionable recommendations",
		},
		Expectations: "Clear insights with statistical backing, visualization suggestions, business recommendations",
		Narrowing:    "Focus on {{specific_metrics}} and their business impact",
		Variables:    []string{"domain", "dataset_description", "specific_metrics"},
		Tags:         []string{"data", "analysis", "insights", "statistics"},
	},
}

// SeedDefaults inserts the stock templates that are missing, keyed by name.
// A failure on one template does not stop the others.
func (s *Store) SeedDefaults(ctx context.Context) (created, skipped int, err error) {
	for _, tmpl := range defaultTemplates {
		_, findErr := s.FindByName(ctx, tmpl.Name)
		switch {
		case findErr == nil:
			skipped++
			s.logger.Debug("skipped existing default template", "name", tmpl.Name)
			continue
		case !errors.Is(findErr, ErrTemplateNotFound):
			return created, skipped, findErr
		}

		if _, createErr := s.Create(ctx, tmpl); createErr != nil {
			s.logger.Error("failed to create default template",
				"name", tmpl.Name, "error", createErr)
			continue
		}
		created++
		s.logger.Info("created default template", "name", tmpl.Name)
	}

	return created, skipped, nil
}
