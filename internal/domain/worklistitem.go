package domain

import "time"

// WorklistItem is one content piece tracked through the editorial pipeline.
// Status is only ever mutated through the workflow engine; everything else
// holds a read-only projection.
type WorklistItem struct {
	ID        int64
	SourceRef string
	Title     string
	Status    ItemStatus

	// Version increments on every status transition. Transition requests
	// carry the version they were computed against; a mismatch at commit
	// time is a concurrent modification, never a silent overwrite.
	Version int64

	// FailedFrom is set while Status is failed and names the stage the
	// item failed out of. Retry re-enters through that stage.
	FailedFrom *ItemStatus

	ReviewNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusChange is one append-only audit entry in an item's status history.
type StatusChange struct {
	ID        int64
	ItemID    int64
	OldStatus ItemStatus
	NewStatus ItemStatus
	ChangedBy string
	Reason    string
	ChangedAt time.Time
}
