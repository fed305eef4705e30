// Package timer turns delayed callbacks into events on a channel so the
// session loop, not a timer goroutine, runs the work.
package timer

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/internal/logging"
)

// Event is delivered when a timer fires.
type Event struct {
	ID int
}

// Service owns timer IDs, scheduling and cancellation.
// Once Cancel returns, the cancelled ID is never delivered.
type Service struct {
	events chan<- Event
	timers map[int]func() bool
	nextID int
	mu     sync.Mutex
	logger *log.Logger

	dropped int
}

// NewService creates a service that delivers fired timers on events.
// A nil logger uses the package default.
func NewService(events chan<- Event, logger *log.Logger) *Service {
	return &Service{
		events: events,
		timers: make(map[int]func() bool),
		logger: logging.Named(logger, "timer"),
	}
}

// After schedules a one-shot timer and returns its ID.
func (s *Service) After(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID

	t := time.AfterFunc(d, func() {
		s.fire(id)
	})
	s.timers[id] = t.Stop
	return id
}

// fire delivers the event unless the timer was cancelled first. The send
// happens under the lock so Cancel cannot race a delivery in flight.
func (s *Service) fire(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[id]; !ok {
		return // Cancelled before firing
	}
	delete(s.timers, id)

	select {
	case s.events <- Event{ID: id}:
	default:
		s.dropped++
		s.logger.Warn("event channel full, timer dropped", "id", id, "dropped", s.dropped)
	}
}

// Dropped returns how many fired timers found the event channel full.
func (s *Service) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Cancel stops a timer. It reports whether the timer was still pending.
func (s *Service) Cancel(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop, ok := s.timers[id]
	if !ok {
		return false
	}
	stop()
	delete(s.timers, id)
	return true
}

// CancelAll stops every pending timer.
func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stop := range s.timers {
		stop()
	}
	s.timers = make(map[int]func() bool)
}

// Active returns the number of pending timers.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
