// Package autosave batches rapid review mutations into periodic
// persistence calls, so navigating away or a network blip never loses
// in-flight review work.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mwoodfin/copydesk/internal/domain"
)

// ErrSaveFailed wraps persistence failures surfaced by FlushNow. The
// buffered mutations are retained; a later flush resends the full current
// state.
var ErrSaveFailed = errors.New("autosave failed")

// State is the coordinator's user-visible save state.
type State string

const (
	StateIdle   State = "idle"
	StateSaving State = "saving"
	StateSaved  State = "saved"
	StateError  State = "error"
)

// Snapshot is the full current session state handed to the Saver. A flush
// is atomic from the coordinator's point of view: the saver either
// persists the whole snapshot or reports failure.
type Snapshot struct {
	ItemID    int64
	Decisions []domain.Decision
	// Notes is nil when notes were not edited this session.
	Notes *string
}

// Saver persists one snapshot. Implementations sit at the transport
// boundary; the coordinator never blocks on anything else.
type Saver interface {
	Save(ctx context.Context, snap Snapshot) error
}

// Options tune coordinator timing. Durations are tuning parameters, not
// correctness properties.
type Options struct {
	// Debounce is how long after the last mutation a flush fires.
	Debounce time.Duration
	// SavedDisplay is how long the saved state lingers before decaying
	// back to idle.
	SavedDisplay time.Duration
	// MaxRetries bounds transparent transport retries within one flush.
	MaxRetries uint64
}

// DefaultOptions matches the config package's defaults.
func DefaultOptions() Options {
	return Options{
		Debounce:     3 * time.Second,
		SavedDisplay: 2 * time.Second,
		MaxRetries:   2,
	}
}

// Coordinator debounces review-session mutations into Saver calls. At most
// one persistence call is in flight at a time; mutations arriving
// mid-flight are buffered and trigger exactly one follow-up flush.
type Coordinator struct {
	saver    Saver
	debounce Scheduler
	decay    Scheduler
	opts     Options

	mu        sync.Mutex
	flushDone *sync.Cond
	session   *domain.ReviewSession
	state     State
	lastErr   error
	inFlight  bool
	queued    bool
}

// NewCoordinator creates a coordinator owning the given session.
func NewCoordinator(saver Saver, session *domain.ReviewSession, debounce, decay Scheduler, opts Options) *Coordinator {
	c := &Coordinator{
		saver:    saver,
		debounce: debounce,
		decay:    decay,
		opts:     opts,
		session:  session,
		state:    StateIdle,
	}
	c.flushDone = sync.NewCond(&c.mu)
	return c
}

// State returns the current save state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error from the most recent failed flush, if the
// coordinator is in the error state.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Schedule merges a mutation into the pending buffer and re-arms the
// debounce window. A mutation arriving while a save is in flight is
// queued, never dropped.
func (c *Coordinator) Schedule(mutate func(*domain.ReviewSession)) {
	c.mu.Lock()
	mutate(c.session)
	if c.inFlight {
		c.queued = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.debounce.Schedule(c.opts.Debounce, func() {
		_ = c.FlushNow(context.Background())
	})
}

// ScheduleDecision buffers one decision.
func (c *Coordinator) ScheduleDecision(d domain.Decision) {
	c.Schedule(func(s *domain.ReviewSession) { s.PutDecision(d) })
}

// ScheduleNotes buffers the current notes text.
func (c *Coordinator) ScheduleNotes(notes string) {
	c.Schedule(func(s *domain.ReviewSession) { s.SetNotes(notes) })
}

// FlushNow persists the buffered state immediately, bypassing the
// debounce. With nothing buffered it is a no-op, so calling it twice in a
// row performs at most one save. If a save is already in flight the call
// blocks until that flush and any queued follow-up have drained the
// buffer; FlushNow never returns while buffered state is still unwritten.
func (c *Coordinator) FlushNow(ctx context.Context) error {
	c.debounce.Cancel()

	c.mu.Lock()
	for c.inFlight {
		c.flushDone.Wait()
	}
	if c.session.Empty() {
		c.mu.Unlock()
		return nil
	}
	// Claimed under the same lock acquisition that observed it free, so
	// two racing callers can never both enter the flush loop.
	c.inFlight = true
	c.mu.Unlock()

	var err error
	for {
		err = c.flushOnce(ctx)

		c.mu.Lock()
		if c.queued {
			c.queued = false
			c.mu.Unlock()
			continue
		}
		c.inFlight = false
		c.flushDone.Broadcast()
		c.mu.Unlock()
		return err
	}
}

// Close cancels any pending debounce and flushes the buffer, waiting out
// any save already in flight. Call before navigating away; losing the
// tail of a review session is a correctness bug, not a cosmetic one.
func (c *Coordinator) Close(ctx context.Context) error {
	c.decay.Cancel()
	return c.FlushNow(ctx)
}

func (c *Coordinator) flushOnce(ctx context.Context) error {
	c.mu.Lock()
	if c.session.Empty() {
		c.mu.Unlock()
		return nil
	}

	snap := Snapshot{
		ItemID:    c.session.ItemID,
		Decisions: c.session.Decisions(),
	}
	if c.session.HasNotes() {
		notes := c.session.Notes
		snap.Notes = &notes
	}
	c.state = StateSaving
	c.mu.Unlock()

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.opts.MaxRetries), ctx)
	err := backoff.Retry(func() error {
		return c.saver.Save(ctx, snap)
	}, policy)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Buffer retained: the next flush resends the full current state,
		// never a stale diff.
		c.state = StateError
		c.lastErr = err
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	c.session.AcknowledgeSaved(snap.Decisions, snap.Notes)
	c.state = StateSaved
	c.lastErr = nil
	c.decay.Schedule(c.opts.SavedDisplay, c.decayToIdle)
	return nil
}

func (c *Coordinator) decayToIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSaved {
		c.state = StateIdle
	}
}
