package utils

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay and tells the time. The sync engine
// takes its debounce and cooldown timers from a Scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// RealScheduler is backed by the time package.
type RealScheduler struct{}

// NewRealScheduler returns a Scheduler using time.AfterFunc and time.Now.
func NewRealScheduler() RealScheduler {
	return RealScheduler{}
}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (RealScheduler) Now() time.Time {
	return time.Now()
}

// ManualScheduler is a Scheduler whose clock only moves on Advance. Callbacks
// run synchronously inside Advance, in due order, without the scheduler lock
// held.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a ManualScheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{s: s, due: s.now.Add(d), seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Set moves the clock to now without firing anything.
func (s *ManualScheduler) Set(now time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Pending returns the number of timers that are neither fired nor stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timer that became due,
// including timers scheduled by callbacks fired during this call.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		if next.due.After(s.now) {
			s.now = next.due
		}
		s.mu.Unlock()

		next.f()
	}
}

func (s *ManualScheduler) nextDueLocked(target time.Time) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})

	if len(s.timers) == 0 || s.timers[0].due.After(target) {
		return nil
	}
	return s.timers[0]
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
