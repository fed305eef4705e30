// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/internal/logging"
	"github.com/drake/galley/session"
)

const defaultInterval = 5 * time.Second

// Enabled returns true if debug mode is active (GALLEY_DEBUG=1).
func Enabled() bool {
	return os.Getenv("GALLEY_DEBUG") == "1"
}

// StatsSource is what the monitor samples. *session.Session satisfies it.
type StatsSource interface {
	Stats() session.Stats
}

// Monitor periodically logs session statistics when debug mode is enabled.
type Monitor struct {
	source   StatsSource
	interval time.Duration
	ctx      context.Context
	logger   *log.Logger
}

// NewMonitor creates a new monitor for the given session.
// If debug mode is not enabled, returns nil.
func NewMonitor(ctx context.Context, src StatsSource, logger *log.Logger) *Monitor {
	if !Enabled() {
		return nil
	}
	return newMonitor(ctx, src, logger, defaultInterval)
}

func newMonitor(ctx context.Context, src StatsSource, logger *log.Logger, interval time.Duration) *Monitor {
	return &Monitor{
		source:   src,
		interval: interval,
		ctx:      ctx,
		logger:   logging.Named(logger, "debug"),
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("monitor started")

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	s := m.source.Stats()
	m.logger.Info("stats",
		"events", s.EventsProcessed,
		"bakes", s.Bakes,
		"timerQ", s.TimerQueueLen,
		"timerCap", s.TimerQueueCap,
		"goroutines", s.Goroutines,
		logging.FieldKind, s.DishKind,
		logging.FieldGeneration, s.Generation,
		logging.FieldState, s.BakeState,
		"prompts", s.PendingPrompts,
		"timers", s.ActiveTimers,
		"fragments", s.CachedFragments,
	)
}
