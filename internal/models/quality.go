package models

// QualityReport is the structured verdict on one agent answer. A failed
// report triggers one intensified retry but never blocks the response; the
// report travels back to the caller as metadata either way.
type QualityReport struct {
	Score             float64  `json:"score"`
	Passed            bool     `json:"passed"`
	CitationCount     int      `json:"citationCount"`
	ValidCitationURLs []string `json:"validCitationUrls"`
	ToolCallCount     int      `json:"toolCallCount"`
	DocToolCallCount  int      `json:"docToolCallCount"`
	CompletenessRatio float64  `json:"completenessRatio"`
	Issues            []string `json:"issues"`
}
