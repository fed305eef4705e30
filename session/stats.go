package session

import "runtime"

type dishSnapshot struct {
	kind       string
	generation uint64
	bakeState  string
	prompts    int
}

// Stats is a point-in-time view of the session for the debug monitor.
// Safe to call from any goroutine.
type Stats struct {
	EventsProcessed uint64
	Bakes           uint64
	TimerQueueLen   int
	TimerQueueCap   int
	Goroutines      int

	DishKind       string
	Generation     uint64
	BakeState      string
	PendingPrompts int

	ActiveTimers    int
	CachedFragments int
}

// Stats returns current session statistics.
func (s *Session) Stats() Stats {
	s.statsMu.Lock()
	snap := s.snapshot
	s.statsMu.Unlock()

	kind := snap.kind
	if kind == "" {
		kind = "none"
	}
	return Stats{
		EventsProcessed: s.eventsProcessed.Load(),
		Bakes:           s.bakes.Load(),
		TimerQueueLen:   len(s.timerEvents),
		TimerQueueCap:   cap(s.timerEvents),
		Goroutines:      runtime.NumGoroutine(),
		DishKind:        kind,
		Generation:      snap.generation,
		BakeState:       snap.bakeState,
		PendingPrompts:  snap.prompts,
		ActiveTimers:    s.timer.Active(),
		CachedFragments: s.engine.CachedFragments(),
	}
}
