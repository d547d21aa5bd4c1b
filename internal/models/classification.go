package models

// QuestionType is one entry of the static question catalog. Entries are
// defined at process start and never mutated; the catalog order doubles as
// the tie-break order during classification.
type QuestionType struct {
	Name             string   `json:"name"`
	Keywords         []string `json:"keywords"`
	ResearchStrategy string   `json:"researchStrategy"`
	OutputFormat     string   `json:"outputFormat"`
	MinSources       int      `json:"minSources"`
}

// ClassificationResult is the per-request outcome of question classification.
type ClassificationResult struct {
	Type       QuestionType       `json:"questionType"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}
