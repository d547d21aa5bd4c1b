// Package validator scores an agent answer on citations, documentation tool
// usage, topical completeness, and length, and decides whether the answer
// clears the quality bar. Validation never fails: malformed URLs are simply
// counted as invalid.
package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"research-assistant/internal/agent"
	"research-assistant/internal/models"
)

// Pass thresholds and score weights.
const (
	passScore          = 0.8
	minDocToolCalls    = 3
	citationNormalizer = 5.0
	toolNormalizer     = 3.0

	citationWeight     = 0.25
	toolWeight         = 0.25
	completenessWeight = 0.25
	formatWeight       = 0.15
	lengthWeight       = 0.10

	minViableLength = 200
	bonusLength     = 500
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]+\]\((https?://[^)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://[^\s)]+`)
)

// docToolNames is the allowlist of documentation-oriented tool names,
// matched as case-insensitive substrings of the logged tool name.
var docToolNames = []string{"search_documentation", "read_documentation", "recommend"}

// formatChecks lists the keywords an answer in the given output format is
// expected to contain.
var formatChecks = map[string][]string{
	"comparative_analysis":   {"comparison", "table", "vs", "difference"},
	"tutorial_format":        {"step", "prerequisite", "example", "code"},
	"detailed_explanation":   {"explain", "how", "what", "why"},
	"solution_oriented":      {"solution", "fix", "error", "issue"},
	"architectural_guidance": {"architecture", "pattern", "design", "best practice"},
	"cost_analysis":          {"cost", "price", "pricing", "budget"},
	"integration_guide":      {"integrate", "connect", "work with", "together"},
}

// Validate produces the quality report for one answer attempt.
func Validate(answer, question string, cls models.ClassificationResult, toolUsage []agent.ToolCall) models.QualityReport {
	validURLs := extractValidCitations(answer)
	citationCount := len(validURLs)
	citationScore := capped(float64(citationCount)/citationNormalizer, 1.0)

	docToolCalls := countDocToolCalls(toolUsage)
	toolScore := capped(float64(docToolCalls)/toolNormalizer, 1.0)

	completeness := completenessRatio(answer, cls.Type.OutputFormat)

	formatScore := 0.5
	if len(answer) > minViableLength {
		formatScore = 1.0
	}
	lengthBonus := 0.5
	if len(answer) > bonusLength {
		lengthBonus = 1.0
	}

	score := citationScore*citationWeight +
		toolScore*toolWeight +
		completeness*completenessWeight +
		formatScore*formatWeight +
		lengthBonus*lengthWeight

	passed := score >= passScore &&
		citationCount >= cls.Type.MinSources &&
		docToolCalls >= minDocToolCalls

	issues := []string{}
	if citationCount < cls.Type.MinSources {
		issues = append(issues, fmt.Sprintf("Insufficient citations: %d < %d", citationCount, cls.Type.MinSources))
	}
	if docToolCalls < minDocToolCalls {
		issues = append(issues, fmt.Sprintf("Insufficient tool usage: %d < %d", docToolCalls, minDocToolCalls))
	}
	if completeness < 0.7 {
		issues = append(issues, "Response lacks expected completeness elements")
	}
	if score < passScore {
		issues = append(issues, fmt.Sprintf("Quality score below threshold: %.2f < %.2f", score, passScore))
	}

	return models.QualityReport{
		Score:             score,
		Passed:            passed,
		CitationCount:     citationCount,
		ValidCitationURLs: validURLs,
		ToolCallCount:     len(toolUsage),
		DocToolCallCount:  docToolCalls,
		CompletenessRatio: completeness,
		Issues:            issues,
	}
}

// extractValidCitations finds every cited URL (markdown links and bare
// URLs), deduplicates them, and keeps those that parse into a non-empty
// scheme and host.
func extractValidCitations(answer string) []string {
	seen := make(map[string]bool)
	valid := []string{}

	appendURL := func(raw string) {
		if seen[raw] {
			return
		}
		seen[raw] = true
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return
		}
		valid = append(valid, raw)
	}

	for _, match := range markdownLinkPattern.FindAllStringSubmatch(answer, -1) {
		appendURL(match[1])
	}
	for _, raw := range bareURLPattern.FindAllString(answer, -1) {
		appendURL(raw)
	}

	return valid
}

func countDocToolCalls(toolUsage []agent.ToolCall) int {
	count := 0
	for _, call := range toolUsage {
		tool := strings.ToLower(call.Tool)
		for _, name := range docToolNames {
			if strings.Contains(tool, name) {
				count++
				break
			}
		}
	}
	return count
}

func completenessRatio(answer, outputFormat string) float64 {
	expected := formatChecks[outputFormat]
	if len(expected) == 0 {
		return 0.5
	}

	lower := strings.ToLower(answer)
	found := 0
	for _, elem := range expected {
		if strings.Contains(lower, elem) {
			found++
		}
	}
	return float64(found) / float64(len(expected))
}

func capped(value, max float64) float64 {
	if value > max {
		return max
	}
	return value
}
