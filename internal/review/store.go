// Package review holds the in-memory working set for one worklist item
// under review: its issues, their current decisions, and the per-issue
// decision history. The store is the single source for precondition and
// statistics questions while a review session is open; persistence is the
// service layer's job.
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwoodfin/copydesk/internal/domain"
)

var (
	// ErrUnknownIssue is returned when a decision references an issue id
	// that is not registered for the item.
	ErrUnknownIssue = errors.New("unknown issue")

	// ErrIllegalDecision is returned when a decision fails validation,
	// such as a modified decision without replacement content.
	ErrIllegalDecision = errors.New("illegal decision")
)

// Store is the decision ledger for one worklist item. Not safe for
// concurrent use; each item has a single logical owner.
type Store struct {
	itemID  int64
	issues  map[string]*domain.ProofreadingIssue
	order   []string
	history map[string][]domain.Decision
}

// NewStore creates an empty store for the given item.
func NewStore(itemID int64) *Store {
	return &Store{
		itemID:  itemID,
		issues:  make(map[string]*domain.ProofreadingIssue),
		history: make(map[string][]domain.Decision),
	}
}

// NewStoreFromIssues creates a store seeded with already-persisted issues,
// typically loaded through an IssueRepo.
func NewStoreFromIssues(itemID int64, issues []*domain.ProofreadingIssue) *Store {
	s := NewStore(itemID)
	for _, issue := range issues {
		s.Upsert(issue)
	}
	return s
}

// ItemID returns the worklist item this store belongs to.
func (s *Store) ItemID() int64 {
	return s.itemID
}

// Upsert registers or refreshes an issue. When an issue with the same
// derived id already carries a non-pending decision, that decision and its
// modified content are re-attached to the fresh issue: a re-analysis pass
// must never silently wipe review work.
func (s *Store) Upsert(issue *domain.ProofreadingIssue) {
	cp := *issue
	cp.ItemID = s.itemID
	if cp.DecisionStatus == "" {
		cp.DecisionStatus = domain.DecisionPending
	}

	if existing, ok := s.issues[cp.ID]; ok {
		if existing.IsDecided() {
			cp.DecisionStatus = existing.DecisionStatus
			cp.ModifiedContent = existing.ModifiedContent
		}
		s.issues[cp.ID] = &cp
		return
	}

	s.issues[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
}

// Issue returns the issue with the given id, if registered.
func (s *Store) Issue(id string) (*domain.ProofreadingIssue, bool) {
	issue, ok := s.issues[id]
	return issue, ok
}

// Issues returns all registered issues in registration order.
func (s *Store) Issues() []*domain.ProofreadingIssue {
	out := make([]*domain.ProofreadingIssue, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.issues[id])
	}
	return out
}

// RecordDecision applies one decision to its issue and appends it to the
// issue's private history. A later decision supersedes an earlier one, but
// the earlier one stays in history. Returns the decision id.
func (s *Store) RecordDecision(d domain.Decision) (string, error) {
	issue, ok := s.issues[d.IssueID]
	if !ok {
		return "", fmt.Errorf("issue %q: %w", d.IssueID, ErrUnknownIssue)
	}
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("issue %q: %v: %w", d.IssueID, err, ErrIllegalDecision)
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.ItemID = s.itemID
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}

	issue.DecisionStatus = d.Type.Status()
	issue.ModifiedContent = d.ModifiedContent
	s.history[d.IssueID] = append(s.history[d.IssueID], d)
	return d.ID, nil
}

// Current returns the issue's current decision, if it has one.
func (s *Store) Current(issueID string) (*domain.Decision, bool) {
	h := s.history[issueID]
	if len(h) == 0 {
		return nil, false
	}
	d := h[len(h)-1]
	return &d, true
}

// History returns all decisions ever recorded for the issue, oldest first.
func (s *Store) History(issueID string) []domain.Decision {
	h := s.history[issueID]
	out := make([]domain.Decision, len(h))
	copy(out, h)
	return out
}

// HasBlocking reports whether any critical issue is still pending.
func (s *Store) HasBlocking() bool {
	for _, issue := range s.issues {
		if issue.BlocksPublication() {
			return true
		}
	}
	return false
}

// Stats is the aggregate view of one item's issues and decisions.
type Stats struct {
	Total    int
	Critical int
	Warning  int
	Info     int

	Pending  int
	Accepted int
	Rejected int
	Modified int

	AICount            int
	DeterministicCount int
}

// StatsFor recomputes the aggregate from current state. O(n) over issues;
// nothing is cached, so there is nothing to invalidate.
func (s *Store) StatsFor() Stats {
	var st Stats
	for _, issue := range s.issues {
		st.Total++
		switch issue.Severity {
		case domain.SeverityCritical:
			st.Critical++
		case domain.SeverityWarning:
			st.Warning++
		case domain.SeverityInfo:
			st.Info++
		}
		switch issue.DecisionStatus {
		case domain.DecisionPending:
			st.Pending++
		case domain.DecisionAccepted:
			st.Accepted++
		case domain.DecisionRejected:
			st.Rejected++
		case domain.DecisionModified:
			st.Modified++
		}
		switch issue.Engine {
		case domain.EngineAI:
			st.AICount++
		case domain.EngineDeterministic:
			st.DeterministicCount++
		}
	}
	return st
}
