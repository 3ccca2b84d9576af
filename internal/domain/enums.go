package domain

// ItemStatus is the pipeline stage of a worklist item.
type ItemStatus string

const (
	StatusPending            ItemStatus = "pending"
	StatusParsing            ItemStatus = "parsing"
	StatusParsingReview      ItemStatus = "parsing_review"
	StatusProofreading       ItemStatus = "proofreading"
	StatusProofreadingReview ItemStatus = "proofreading_review"
	StatusReadyToPublish     ItemStatus = "ready_to_publish"
	StatusPublishing         ItemStatus = "publishing"
	StatusPublished          ItemStatus = "published"
	StatusFailed             ItemStatus = "failed"
)

// AllItemStatuses lists the canonical statuses in pipeline order,
// with failed last.
var AllItemStatuses = []ItemStatus{
	StatusPending,
	StatusParsing,
	StatusParsingReview,
	StatusProofreading,
	StatusProofreadingReview,
	StatusReadyToPublish,
	StatusPublishing,
	StatusPublished,
	StatusFailed,
}

// legacyStatusAliases maps status strings written by older versions of the
// dashboard to their canonical value. Applied on read only; the canonical
// value is what gets written back.
var legacyStatusAliases = map[string]ItemStatus{
	"under_review": StatusProofreadingReview,
}

// NormalizeItemStatus maps a raw status string to its canonical ItemStatus,
// resolving legacy aliases. The second return is false for strings that are
// neither canonical nor a known alias.
func NormalizeItemStatus(raw string) (ItemStatus, bool) {
	if alias, ok := legacyStatusAliases[raw]; ok {
		return alias, true
	}
	s := ItemStatus(raw)
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Valid reports whether s is one of the nine canonical statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusParsing, StatusParsingReview,
		StatusProofreading, StatusProofreadingReview, StatusReadyToPublish,
		StatusPublishing, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// IsReviewStage reports whether s is a stage that requires human sign-off
// before the forward edge may fire.
func (s ItemStatus) IsReviewStage() bool {
	return s == StatusParsingReview || s == StatusProofreadingReview
}

// IsTerminal reports whether no forward edge leaves s.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusPublished
}

// Severity classifies how strongly an issue should gate publication.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether v is a known severity.
func (v Severity) Valid() bool {
	switch v {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// IssueEngine records which detector produced an issue. Provenance only;
// both engines are treated identically by the workflow.
type IssueEngine string

const (
	EngineAI            IssueEngine = "ai"
	EngineDeterministic IssueEngine = "deterministic"
)

// Valid reports whether e is a known engine.
func (e IssueEngine) Valid() bool {
	return e == EngineAI || e == EngineDeterministic
}

// DecisionStatus is the reviewer-facing state of an issue.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionAccepted DecisionStatus = "accepted"
	DecisionRejected DecisionStatus = "rejected"
	DecisionModified DecisionStatus = "modified"
)

// Valid reports whether d is one of the four canonical decision statuses.
func (d DecisionStatus) Valid() bool {
	switch d {
	case DecisionPending, DecisionAccepted, DecisionRejected, DecisionModified:
		return true
	}
	return false
}

// DecisionType is a reviewer verdict. It is the non-pending subset of
// DecisionStatus: recording a decision of type t moves the issue to
// decision status t.
type DecisionType string

const (
	DecisionTypeAccepted DecisionType = "accepted"
	DecisionTypeRejected DecisionType = "rejected"
	DecisionTypeModified DecisionType = "modified"
)

// Valid reports whether t is a known decision type.
func (t DecisionType) Valid() bool {
	switch t {
	case DecisionTypeAccepted, DecisionTypeRejected, DecisionTypeModified:
		return true
	}
	return false
}

// Status returns the DecisionStatus an issue carries after a decision of
// type t.
func (t DecisionType) Status() DecisionStatus {
	return DecisionStatus(t)
}
