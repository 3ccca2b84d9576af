package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// AnalysisSchema is the top-level JSON structure an analysis pass produces
// for one worklist item.
type AnalysisSchema struct {
	Item   ItemRef       `json:"item"`
	Issues []IssueImport `json:"issues"`
}

// ItemRef identifies the worklist item the analysis ran against.
type ItemRef struct {
	ID         int64  `json:"id"`
	SourceRef  string `json:"source_ref,omitempty"`
	AnalyzedAt string `json:"analyzed_at,omitempty"`
}

// IssueImport defines one detected issue in the analysis file.
type IssueImport struct {
	RuleID    string         `json:"rule_id"`
	Engine    string         `json:"engine"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message,omitempty"`
	Original  string         `json:"original,omitempty"`
	Suggested string         `json:"suggested,omitempty"`
	Position  PositionImport `json:"position"`
}

// PositionImport carries both coordinate spaces; offsets diverge once HTML
// tags are stripped, so both must survive the round trip.
type PositionImport struct {
	HTMLStart int `json:"html_start"`
	HTMLEnd   int `json:"html_end"`
	TextStart int `json:"text_start"`
	TextEnd   int `json:"text_end"`
}

// LoadAnalysisSchema reads and parses an analysis-result JSON file.
func LoadAnalysisSchema(path string) (*AnalysisSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema AnalysisSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing analysis file: %w", err)
	}
	return &schema, nil
}
