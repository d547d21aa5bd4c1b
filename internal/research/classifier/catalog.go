// Package classifier maps raw question text onto the static question-type
// catalog. Classification is keyword based and deterministic: the same
// question always yields the same type and confidence.
package classifier

import "research-assistant/internal/models"

// GeneralType is the fallback returned when no keyword matches. It reuses
// the comprehensive research profile with the lowest citation floor.
var GeneralType = models.QuestionType{
	Name:             "general",
	Keywords:         nil,
	ResearchStrategy: "comprehensive_research",
	OutputFormat:     "detailed_explanation",
	MinSources:       3,
}

// Catalog is the ordered question-type table. Declaration order is the
// tie-break order: earlier entries carry historically higher-precision
// keywords and win equal scores.
var Catalog = []models.QuestionType{
	{
		Name:             "comparison",
		Keywords:         []string{"vs", "compare", "difference", "better", "which", "versus", "comparison"},
		ResearchStrategy: "multi_service_comparison",
		OutputFormat:     "comparative_analysis",
		MinSources:       4,
	},
	{
		Name:             "how_to",
		Keywords:         []string{"how", "implement", "setup", "configure", "create", "build", "set up", "install"},
		ResearchStrategy: "step_by_step_guide",
		OutputFormat:     "tutorial_format",
		MinSources:       5,
	},
	{
		Name:             "deep_dive",
		Keywords:         []string{"explain", "understand", "details", "how does", "what is", "why", "how it works"},
		ResearchStrategy: "comprehensive_research",
		OutputFormat:     "detailed_explanation",
		MinSources:       6,
	},
	{
		Name:             "troubleshooting",
		Keywords:         []string{"error", "issue", "problem", "fix", "debug", "why", "not working", "failed", "troubleshoot"},
		ResearchStrategy: "problem_solving",
		OutputFormat:     "solution_oriented",
		MinSources:       4,
	},
	{
		Name:             "architecture",
		Keywords:         []string{"architecture", "design", "pattern", "best practice", "recommend", "approach"},
		ResearchStrategy: "architectural_research",
		OutputFormat:     "architectural_guidance",
		MinSources:       5,
	},
	{
		Name:             "pricing",
		Keywords:         []string{"cost", "price", "pricing", "expensive", "cheap", "budget", "how much"},
		ResearchStrategy: "pricing_research",
		OutputFormat:     "cost_analysis",
		MinSources:       3,
	},
	{
		Name:             "integration",
		Keywords:         []string{"integrate", "connect", "work with", "together", "combine", "link"},
		ResearchStrategy: "integration_research",
		OutputFormat:     "integration_guide",
		MinSources:       4,
	},
}
