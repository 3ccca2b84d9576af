package domain

import (
	"errors"
	"time"
)

// ErrModifiedContentRequired is returned when a modified decision carries
// no replacement content.
var ErrModifiedContentRequired = errors.New("modified decision requires modified content")

// ErrModifiedContentForbidden is returned when a non-modified decision
// carries replacement content.
var ErrModifiedContentForbidden = errors.New("only modified decisions may carry modified content")

// Decision is one reviewer verdict on one issue. At most one decision per
// issue is current; re-deciding supersedes, and the superseded decision is
// kept in the issue's history, never discarded.
type Decision struct {
	ID      string
	ItemID  int64
	IssueID string
	Type    DecisionType

	Rationale string
	// ModifiedContent is non-empty iff Type is modified. Use NewDecision
	// variants to hold that by construction; Validate enforces it at the
	// system boundary.
	ModifiedContent string

	FeedbackCategory string
	FeedbackNotes    string

	DecidedBy string
	DecidedAt time.Time
}

// NewAcceptedDecision builds a decision accepting the suggested edit as is.
func NewAcceptedDecision(issueID, rationale string) Decision {
	return Decision{IssueID: issueID, Type: DecisionTypeAccepted, Rationale: rationale}
}

// NewRejectedDecision builds a decision leaving the original text untouched.
func NewRejectedDecision(issueID, rationale string) Decision {
	return Decision{IssueID: issueID, Type: DecisionTypeRejected, Rationale: rationale}
}

// NewModifiedDecision builds a decision replacing the suggested edit with
// reviewer-authored content.
func NewModifiedDecision(issueID, content, rationale string) Decision {
	return Decision{IssueID: issueID, Type: DecisionTypeModified, Rationale: rationale, ModifiedContent: content}
}

// Validate checks the type/content pairing invariant.
func (d *Decision) Validate() error {
	if !d.Type.Valid() {
		return errors.New("unknown decision type")
	}
	if d.Type == DecisionTypeModified && d.ModifiedContent == "" {
		return ErrModifiedContentRequired
	}
	if d.Type != DecisionTypeModified && d.ModifiedContent != "" {
		return ErrModifiedContentForbidden
	}
	return nil
}
