package domain

import "time"

// ReviewSession is the in-flight review state for one worklist item: the
// decisions made since the last successful save plus free-text notes.
// It lives in memory only; the autosave coordinator owns it until flushed.
type ReviewSession struct {
	ItemID    int64
	StartedAt time.Time

	// decisions keyed by issue id; re-deciding an issue inside one session
	// replaces the buffered entry so a flush sends current state, not a
	// stale diff.
	decisions map[string]Decision
	order     []string

	Notes    string
	notesSet bool
}

// NewReviewSession starts an empty session for the given item.
func NewReviewSession(itemID int64, now time.Time) *ReviewSession {
	return &ReviewSession{
		ItemID:    itemID,
		StartedAt: now,
		decisions: make(map[string]Decision),
	}
}

// PutDecision buffers a decision, replacing any earlier buffered decision
// for the same issue.
func (s *ReviewSession) PutDecision(d Decision) {
	if _, exists := s.decisions[d.IssueID]; !exists {
		s.order = append(s.order, d.IssueID)
	}
	s.decisions[d.IssueID] = d
}

// SetNotes buffers the current review notes text.
func (s *ReviewSession) SetNotes(notes string) {
	s.Notes = notes
	s.notesSet = true
}

// HasNotes reports whether notes were edited during this session.
func (s *ReviewSession) HasNotes() bool {
	return s.notesSet
}

// Decisions returns the buffered decisions in first-buffered order.
func (s *ReviewSession) Decisions() []Decision {
	out := make([]Decision, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.decisions[id])
	}
	return out
}

// AcknowledgeSaved drops buffered state that a completed flush persisted.
// A decision re-buffered mid-flight differs from its saved copy and is
// kept, so the next flush resends the current state.
func (s *ReviewSession) AcknowledgeSaved(saved []Decision, savedNotes *string) {
	var remaining []string
	for _, id := range s.order {
		kept := true
		for _, d := range saved {
			if d.IssueID == id && s.decisions[id] == d {
				delete(s.decisions, id)
				kept = false
				break
			}
		}
		if kept {
			remaining = append(remaining, id)
		}
	}
	s.order = remaining
	if savedNotes != nil && s.Notes == *savedNotes {
		s.notesSet = false
	}
}

// Empty reports whether the session holds nothing worth saving.
func (s *ReviewSession) Empty() bool {
	return len(s.decisions) == 0 && !s.notesSet
}

// Clear drops the buffered state after a successful flush.
func (s *ReviewSession) Clear() {
	s.decisions = make(map[string]Decision)
	s.order = nil
	s.notesSet = false
}
