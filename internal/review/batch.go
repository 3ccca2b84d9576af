package review

import (
	"errors"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// Batch entry failure reasons surfaced to callers.
const (
	ReasonUnknownIssue        = "UnknownIssue"
	ReasonIllegalDecisionType = "IllegalDecisionType"
)

// BatchEntry is one requested decision inside a batch.
type BatchEntry struct {
	IssueID          string
	Type             domain.DecisionType
	Rationale        string
	ModifiedContent  string
	FeedbackCategory string
	FeedbackNotes    string
}

// SavedDecision reports one successfully recorded batch entry.
type SavedDecision struct {
	IssueID    string
	DecisionID string
	Type       domain.DecisionType
}

// BatchEntryError reports one failed batch entry.
type BatchEntryError struct {
	IssueID string
	Reason  string
	Err     error
}

// BatchResult is the outcome of applying a batch: successes and failures
// side by side, never one aborting the other.
type BatchResult struct {
	Saved  []SavedDecision
	Errors []BatchEntryError
}

// ApplyBatch records each entry against the store independently, in input
// order. A malformed entry is collected into Errors and processing
// continues; every issue named in Saved carries exactly the decision
// recorded for it. Deterministic fold, no internal concurrency.
func ApplyBatch(store *Store, actor string, now time.Time, entries []BatchEntry) BatchResult {
	var result BatchResult
	for _, entry := range entries {
		d := domain.Decision{
			IssueID:          entry.IssueID,
			Type:             entry.Type,
			Rationale:        entry.Rationale,
			ModifiedContent:  entry.ModifiedContent,
			FeedbackCategory: entry.FeedbackCategory,
			FeedbackNotes:    entry.FeedbackNotes,
			DecidedBy:        actor,
			DecidedAt:        now,
		}
		id, err := store.RecordDecision(d)
		if err != nil {
			result.Errors = append(result.Errors, BatchEntryError{
				IssueID: entry.IssueID,
				Reason:  reasonFor(err),
				Err:     err,
			})
			continue
		}
		result.Saved = append(result.Saved, SavedDecision{
			IssueID:    entry.IssueID,
			DecisionID: id,
			Type:       entry.Type,
		})
	}
	return result
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownIssue):
		return ReasonUnknownIssue
	case errors.Is(err, ErrIllegalDecision):
		return ReasonIllegalDecisionType
	default:
		return err.Error()
	}
}
