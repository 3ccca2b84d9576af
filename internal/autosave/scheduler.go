package autosave

import (
	"sync"
	"time"
)

// Scheduler arms a single pending callback. Scheduling again before the
// callback fires replaces it, which is exactly the debounce behavior the
// coordinator needs; tests substitute a manual implementation instead of
// faking timers.
type Scheduler interface {
	// Schedule arms fn to run after d, replacing any pending callback.
	Schedule(d time.Duration, fn func())
	// Cancel drops the pending callback, if any.
	Cancel()
}

// TimerScheduler implements Scheduler with a real timer.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewTimerScheduler creates a timer-backed scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, fn)
}

func (s *TimerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
