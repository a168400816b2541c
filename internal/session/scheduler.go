package session

import (
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. It is the controller's only source of time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimerScheduler schedules with time.AfterFunc. When Dispatch is set, every
// callback is handed to it instead of running on the timer goroutine, which
// lets a UI toolkit run ticks on its own event loop.
type TimerScheduler struct {
	Dispatch func(func())
}

func (s TimerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	if s.Dispatch == nil {
		return time.AfterFunc(d, f)
	}
	dispatch := s.Dispatch
	return time.AfterFunc(d, func() { dispatch(f) })
}

// ManualScheduler fires callbacks only when its clock is advanced. Used for
// deterministic tests of timed playback.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now is the time elapsed since the scheduler was created.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of callbacks that are scheduled and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due callbacks in order of
// their deadline. Callbacks scheduled while advancing fire too if they fall
// inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	end := s.now + d
	s.mu.Unlock()

	for {
		t := s.nextDue(end)
		if t == nil {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = end
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDue(end time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *manualTimer
	live := s.pending[:0]
	for _, t := range s.pending {
		if t.stopped || t.fired {
			continue
		}
		live = append(live, t)
		if t.at > end {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	s.pending = live
	if next != nil {
		next.fired = true
		s.now = next.at
	}
	return next
}
