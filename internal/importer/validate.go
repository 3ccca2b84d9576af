package importer

import (
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

var (
	validEngines    = map[string]bool{"ai": true, "deterministic": true}
	validSeverities = map[string]bool{"critical": true, "warning": true, "info": true}
)

// ValidateAnalysisSchema checks the analysis schema before conversion.
// Returns a slice of all validation errors found.
func ValidateAnalysisSchema(schema *AnalysisSchema) []error {
	var errs []error

	if schema.Item.ID <= 0 {
		errs = append(errs, fmt.Errorf("item.id must be positive"))
	}
	if schema.Item.AnalyzedAt != "" {
		if _, err := time.Parse(time.RFC3339, schema.Item.AnalyzedAt); err != nil {
			errs = append(errs, fmt.Errorf("item.analyzed_at: invalid timestamp %q (expected RFC 3339)", schema.Item.AnalyzedAt))
		}
	}

	seen := make(map[string]int)
	for i, issue := range schema.Issues {
		prefix := fmt.Sprintf("issues[%d]", i)

		if issue.RuleID == "" {
			errs = append(errs, fmt.Errorf("%s.rule_id is required", prefix))
		}
		if issue.Engine == "" {
			errs = append(errs, fmt.Errorf("%s.engine is required", prefix))
		} else if !validEngines[issue.Engine] {
			errs = append(errs, fmt.Errorf("%s.engine: invalid value %q", prefix, issue.Engine))
		}
		if issue.Severity == "" {
			errs = append(errs, fmt.Errorf("%s.severity is required", prefix))
		} else if !validSeverities[issue.Severity] {
			errs = append(errs, fmt.Errorf("%s.severity: invalid value %q", prefix, issue.Severity))
		}

		errs = append(errs, validatePosition(prefix+".position", issue.Position)...)

		// Identity is derived from rule + text offset; two entries landing
		// on the same derived id would silently overwrite each other.
		if issue.RuleID != "" {
			id := domain.DeriveIssueID(issue.RuleID, issue.Position.TextStart)
			if prev, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("%s: derived id %q collides with issues[%d]", prefix, id, prev))
			} else {
				seen[id] = i
			}
		}
	}

	return errs
}

func validatePosition(prefix string, p PositionImport) []error {
	var errs []error

	if p.HTMLStart < 0 || p.TextStart < 0 {
		errs = append(errs, fmt.Errorf("%s: offsets must be non-negative", prefix))
	}
	if p.HTMLEnd < p.HTMLStart {
		errs = append(errs, fmt.Errorf("%s: html_end (%d) before html_start (%d)", prefix, p.HTMLEnd, p.HTMLStart))
	}
	if p.TextEnd < p.TextStart {
		errs = append(errs, fmt.Errorf("%s: text_end (%d) before text_start (%d)", prefix, p.TextEnd, p.TextStart))
	}

	return errs
}
