package scheduler

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Action is the callback fired when a timer elapses. It runs on the timer's
// own goroutine and must not block the caller's request path.
type Action func()

type entry struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler holds one pending timer per job id. Scheduling a job id that is
// already pending replaces the old timer; an action fires at most once per
// registration.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]entry
	gen    uint64
	log    *logrus.Logger

	// Now is swapped in tests to control the perceived current time.
	Now func() time.Time
}

func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]entry),
		log:    log,
	}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Schedule registers action to fire at the given time. If a timer already
// exists for jobID it is stopped and replaced. A trigger time in the past
// fires immediately.
func (s *Scheduler) Schedule(jobID string, at time.Time, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[jobID]; ok {
		old.timer.Stop()
		s.log.WithField("job_id", jobID).Warn("replacing existing timer")
	}

	s.gen++
	gen := s.gen

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	// The closure captures the generation, not the timer: a fire that races
	// with a replacement or cancellation loses the claim and does nothing.
	t := time.AfterFunc(delay, func() {
		if !s.claim(jobID, gen) {
			return
		}
		action()
	})
	s.timers[jobID] = entry{timer: t, gen: gen}
}

func (s *Scheduler) claim(jobID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.timers[jobID]
	if !ok || e.gen != gen {
		return false
	}
	delete(s.timers, jobID)
	return true
}

// Cancel stops the pending timer for jobID. It reports false when no timer
// is pending, including when the action has already fired.
func (s *Scheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.timers[jobID]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.timers, jobID)
	return true
}

// Contains reports whether a timer is currently pending for jobID.
func (s *Scheduler) Contains(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[jobID]
	return ok
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.timers {
		e.timer.Stop()
		delete(s.timers, id)
	}
}
