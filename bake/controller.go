// Package bake drives the loading indicator shown while a bake runs.
//
// Short bakes never show it: the indicator only appears once a bake has
// been running for the debounce delay.
package bake

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/internal/logging"
)

// DefaultDelay is how long a bake must run before the indicator shows.
const DefaultDelay = 200 * time.Millisecond

// State is the controller's position in Idle → Pending → Active → Idle.
type State int

const (
	Idle State = iota
	Pending
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Scheduler schedules one-shot timers whose firing is reported back through
// OnTimer. timer.Service satisfies it.
type Scheduler interface {
	After(d time.Duration) int
	Cancel(id int) bool
}

// Indicator is the part of the surface the controller drives.
type Indicator interface {
	SetLoading(visible bool)
	SetEditable(editable bool)
	ClearStatusMessage()
}

// Controller is the bake-status state machine. Like the dish store it is
// only touched from the session loop.
type Controller struct {
	sched     Scheduler
	indicator Indicator
	delay     time.Duration
	logger    *log.Logger

	state   State
	timerID int // 0 when nothing is pending
}

// NewController creates an idle controller. A non-positive delay uses
// DefaultDelay.
func NewController(sched Scheduler, indicator Indicator, delay time.Duration, logger *log.Logger) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Controller{
		sched:     sched,
		indicator: indicator,
		delay:     delay,
		logger:    logging.Named(logger, "bake"),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Start is called when a bake begins. An already active indicator stays up;
// a pending one is rescheduled from now.
func (c *Controller) Start() {
	switch c.state {
	case Active:
		return
	case Pending:
		c.sched.Cancel(c.timerID)
	}
	c.timerID = c.sched.After(c.delay)
	c.state = Pending
	c.logger.Debug("bake started", logging.FieldState, c.state, "timer", c.timerID)
}

// OnTimer handles a fired timer. It reports whether the timer belonged to
// the controller. Fires for timers that were already cancelled or replaced
// are ignored.
func (c *Controller) OnTimer(id int) bool {
	if c.state != Pending || id == 0 || id != c.timerID {
		return false
	}
	c.timerID = 0
	c.state = Active
	c.indicator.SetEditable(false)
	c.indicator.SetLoading(true)
	c.logger.Debug("bake indicator shown")
	return true
}

// Owns reports whether id is the controller's pending timer.
func (c *Controller) Owns(id int) bool {
	return id != 0 && id == c.timerID
}

// Finish is called when a bake ends, successfully or not.
func (c *Controller) Finish() {
	if c.timerID != 0 {
		c.sched.Cancel(c.timerID)
		c.timerID = 0
	}
	c.indicator.SetEditable(true)
	c.indicator.SetLoading(false)
	c.indicator.ClearStatusMessage()
	c.state = Idle
	c.logger.Debug("bake finished")
}
