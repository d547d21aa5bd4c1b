// Package prompt builds the instruction text handed to the Knowledge Agent.
// The base prompt carries the question type's research checklist and output
// requirements; recovered follow-up context and retry corrections are
// strictly additive blocks on top of it.
package prompt

import (
	"fmt"
	"strings"

	"research-assistant/internal/models"
)

const contextSummaryLimit = 500

// Build assembles the full agent prompt. When the follow-up decision
// carries recovered context, a continuity block is appended; the presence
// of that context is the only follow-up signal the generator needs.
func Build(question string, cls models.ClassificationResult, followUp *models.FollowUpDecision) string {
	base := buildBase(question, cls)

	if followUp == nil || followUp.RecoveredContext == nil {
		return base
	}
	return base + "\n\n" + buildContextBlock(question, followUp.RecoveredContext)
}

// AppendCorrections intensifies a prompt for a retry attempt by appending
// the validator's findings as explicit correction directives.
func AppendCorrections(prompt string, issues []string) string {
	if len(issues) == 0 {
		return prompt
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nCORRECTIONS REQUIRED:\nThe previous answer fell short of the quality bar. Address every issue below:\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	return b.String()
}

func buildBase(question string, cls models.ClassificationResult) string {
	strategy, ok := researchStrategies[cls.Type.ResearchStrategy]
	if !ok {
		strategy = researchStrategies["comprehensive_research"]
	}

	return fmt.Sprintf(`Analyze this AWS question:

%s

RESEARCH STRATEGY:
%s

OUTPUT REQUIREMENTS:
- Provide comprehensive, well-researched answer
- Use AWS documentation via MCP tools extensively
- Cite at least %d documentation sources
- Format response according to %s format
- Include specific examples and use cases
- End with 2-3 relevant follow-up questions

QUALITY REQUIREMENTS:
- Use MCP documentation tools to search and read AWS docs
- Reference official AWS documentation URLs
- Ensure accuracy by verifying facts from multiple sources
- Provide actionable guidance

End with follow-up questions formatted as:
Follow-up questions:
- [Question 1]
- [Question 2]
- [Question 3]`, question, strategy, cls.Type.MinSources, cls.Type.OutputFormat)
}

func buildContextBlock(question string, prev *models.AnalysisContext) string {
	summary := prev.Summary
	if len(summary) > contextSummaryLimit {
		summary = summary[:contextSummaryLimit]
	}

	return fmt.Sprintf(`PREVIOUS ANALYSIS CONTEXT:
Previous Question: %s
Summary: %s
Services Discussed: %s
Topics Covered: %s

CURRENT FOLLOW-UP QUESTION: %s

INSTRUCTIONS FOR FOLLOW-UP:
- Build upon the previous analysis
- Reference previously discussed services when relevant
- Provide deeper insights into topics already covered
- Connect new information to previous discussion
- Maintain conversation continuity
- Cite documentation sources that expand on previous discussion`,
		prev.Question,
		summary,
		strings.Join(prev.Services, ", "),
		strings.Join(prev.Topics, ", "),
		question)
}
