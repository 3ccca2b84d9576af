package workflow

import "github.com/mwoodfin/copydesk/internal/domain"

// forwardEdges is the pipeline's single legal forward successor per stage.
// There are no shortcuts; each item walks the full chain.
var forwardEdges = map[domain.ItemStatus]domain.ItemStatus{
	domain.StatusPending:            domain.StatusParsing,
	domain.StatusParsing:            domain.StatusParsingReview,
	domain.StatusParsingReview:      domain.StatusProofreading,
	domain.StatusProofreading:       domain.StatusProofreadingReview,
	domain.StatusProofreadingReview: domain.StatusReadyToPublish,
	domain.StatusReadyToPublish:     domain.StatusPublishing,
	domain.StatusPublishing:         domain.StatusPublished,
}

// NextForward returns the forward successor of from, if any.
func NextForward(from domain.ItemStatus) (domain.ItemStatus, bool) {
	to, ok := forwardEdges[from]
	return to, ok
}

// IsLegal reports whether a directed edge from→to exists in the transition
// table. For failed→X it only checks that X is a retryable stage; whether X
// matches the stage the item actually failed out of is per-item state and
// is enforced by the engine.
func IsLegal(from, to domain.ItemStatus) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	if to == domain.StatusFailed {
		return from != domain.StatusFailed
	}
	if from == domain.StatusFailed {
		// Manual retry re-enters through the stage that failed; never
		// straight to published.
		return to != domain.StatusPublished
	}
	return forwardEdges[from] == to
}

// Precondition describes what must hold before an edge may fire, beyond
// its existence in the table.
type Precondition struct {
	// HumanSignoff requires the transition to be requested by a human
	// actor, not the pipeline itself.
	HumanSignoff bool
	// NoPendingCritical requires that no critical-severity issue on the
	// item is still pending.
	NoPendingCritical bool
	// RetryOrigin requires the target stage to be the one the item failed
	// out of.
	RetryOrigin bool
}

// RequiredPrecondition returns the predicate guarding the edge from→to.
// Meaningful only for edges where IsLegal holds.
func RequiredPrecondition(from, to domain.ItemStatus) Precondition {
	var p Precondition
	if from.IsReviewStage() && to != domain.StatusFailed {
		p.HumanSignoff = true
	}
	if to == domain.StatusReadyToPublish {
		p.NoPendingCritical = true
	}
	if from == domain.StatusFailed && to != domain.StatusFailed {
		p.RetryOrigin = true
	}
	return p
}
