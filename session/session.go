// Package session runs galley's event loop. It owns the dish store and
// everything that reads or writes it, so none of them need locks.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/bake"
	"github.com/drake/galley/codec"
	"github.com/drake/galley/dish"
	"github.com/drake/galley/event"
	"github.com/drake/galley/highlight"
	"github.com/drake/galley/internal/buffer"
	"github.com/drake/galley/internal/logging"
	"github.com/drake/galley/pipeline"
	"github.com/drake/galley/render"
	"github.com/drake/galley/script"
	"github.com/drake/galley/timer"
	"github.com/drake/galley/transfer"
)

const noticeDuration = 2 * time.Second

// Ensure Session implements its collaborator interfaces at compile time
var (
	_ transfer.InputStage = (*Session)(nil)
	_ transfer.Prompter   = (*Session)(nil)
	_ script.Host         = (*Session)(nil)
)

// UI is the display the session drives.
type UI interface {
	render.Surface
	bake.Indicator
	transfer.Notifier

	Run() error
	Quit()
	Done() <-chan struct{}
	// Outbound carries user actions, edits and prompt replies.
	Outbound() <-chan event.Event

	SetInput(text string, binary bool)
	SetAffordances(a Affordances)
	ShowHighlighted(text, language string)
	ShowPrompt(id, label, initial string)
}

// Affordances tells the UI which actions currently do something.
type Affordances struct {
	CanSwitch   bool
	CanUndo     bool
	CanSlice    bool
	Highlighted bool
}

// Config holds session configuration
type Config struct {
	Baker           pipeline.Baker
	Codec           *codec.Codec
	Clipboard       transfer.Clipboard
	Saver           transfer.Saver
	Highlighter     *highlight.Highlighter
	Debounce        time.Duration
	DefaultFilename string
	ScriptTimeout   time.Duration
	ScriptCacheSize int
	Logger          *log.Logger
}

// Session orchestrates the dish components.
type Session struct {
	ui          UI
	store       *dish.Store
	renderer    *render.Renderer
	transfer    *transfer.Transfer
	bake        *bake.Controller
	timer       *timer.Service
	engine      *script.Engine
	highlighter *highlight.Highlighter
	callbacks   *CallbackManager
	baker       pipeline.Baker
	logger      *log.Logger

	// Pipeline input. Only touched on the session loop.
	input      []byte
	bakeSeq    uint64
	cancelBake context.CancelFunc

	eventsIn    chan<- event.Event
	eventsOut   <-chan event.Event
	timerEvents chan timer.Event

	ctx    context.Context
	cancel context.CancelFunc

	eventsProcessed atomic.Uint64
	bakes           atomic.Uint64
	statsMu         sync.Mutex
	snapshot        dishSnapshot

	// Shutdown coordination
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Session. It is passive - no goroutines other than the event
// buffer start here.
func New(ui UI, cfg Config) (*Session, error) {
	logger := logging.Named(cfg.Logger, "session")
	c := cfg.Codec
	if c == nil {
		c = codec.New(codec.Options{})
	}
	baker := cfg.Baker
	if baker == nil {
		baker = pipeline.Passthrough{Codec: c}
	}
	hl := cfg.Highlighter
	if hl == nil {
		hl = highlight.New("")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = bake.DefaultDelay
	}

	timerEvents := make(chan timer.Event, 64)
	eventsIn, eventsOut := buffer.Unbounded[event.Event](64, 4096, cfg.Logger)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ui:          ui,
		timer:       timer.NewService(timerEvents, cfg.Logger),
		timerEvents: timerEvents,
		highlighter: hl,
		callbacks:   NewCallbackManager(),
		baker:       baker,
		logger:      logger,
		eventsIn:    eventsIn,
		eventsOut:   eventsOut,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	s.engine = script.NewEngine(s, script.Options{
		Timeout:   cfg.ScriptTimeout,
		CacheSize: cfg.ScriptCacheSize,
		Logger:    cfg.Logger,
	})
	if err := s.engine.Init(); err != nil {
		cancel()
		return nil, fmt.Errorf("script engine: %w", err)
	}

	s.renderer = render.New(render.Options{
		Surface:  ui,
		Executor: s.engine,
		Logger:   cfg.Logger,
		Context:  ctx,
	})
	s.store = dish.NewStore(dish.Options{
		Codec:       c,
		Renderer:    s.renderer,
		Highlighter: hl,
		Logger:      cfg.Logger,
	})
	s.transfer = transfer.New(transfer.Options{
		Source:    s.store,
		Clipboard: cfg.Clipboard,
		Saver:     cfg.Saver,
		Prompter:  s,
		Input:     s,
		Notifier:  ui,
		Logger:    cfg.Logger,
		Fallback:  cfg.DefaultFilename,
	})
	s.bake = bake.NewController(s.timer, ui, debounce, cfg.Logger)

	return s, nil
}

// Load queues new input for baking.
func (s *Session) Load(input []byte) {
	s.post(event.Event{Type: event.InputChanged, Payload: string(input)})
}

// Run starts the session and blocks until the UI exits.
func (s *Session) Run() error {
	defer s.engine.Close()

	go s.processEvents()

	err := s.ui.Run()
	s.shutdown()
	return err
}

func (s *Session) post(ev event.Event) {
	select {
	case <-s.done:
	case s.eventsIn <- ev:
	}
}

// processEvents is the main event loop.
func (s *Session) processEvents() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.eventsOut:
			s.handleEvent(ev)
		case ev, ok := <-s.ui.Outbound():
			if !ok {
				s.shutdown()
				return
			}
			s.handleEvent(ev)
		case evt := <-s.timerEvents:
			s.bake.OnTimer(evt.ID)
		}
	}
}

// handleEvent executes a single event on the session loop.
func (s *Session) handleEvent(ev event.Event) {
	s.eventsProcessed.Add(1)

	switch ev.Type {
	case event.InputChanged:
		s.setInput([]byte(ev.Payload))
		s.rebake()

	case event.BakeFinished:
		s.finishBake(ev.Bake)

	case event.UserAction:
		s.handleAction(ev)

	case event.PromptReply:
		if !s.callbacks.Execute(ev.PromptID, ev.Payload, ev.OK) {
			s.logger.Debug("reply for unknown prompt", "id", ev.PromptID)
		}

	case event.AsyncResult:
		if ev.Callback != nil {
			ev.Callback()
		}
	}

	s.refresh()
}

func (s *Session) handleAction(ev event.Event) {
	switch ev.Action {
	case event.ActionCopy:
		s.transfer.Copy()
	case event.ActionDownload:
		s.transfer.Download()
	case event.ActionSwitch:
		if err := s.transfer.SwitchToInput(); err != nil {
			s.logger.Debug("switch refused", logging.FieldError, err)
		}
	case event.ActionFileValue:
		s.transfer.SwitchFileValue(ev.Payload)
	case event.ActionUndo:
		s.transfer.UndoSwitch()
	case event.ActionSlice:
		s.promptSlice()
	case event.ActionClose:
		s.store.Clear()
	case event.ActionRebake:
		s.rebake()
	case event.ActionHighlight:
		s.toggleHighlight()
	case event.ActionClear:
		s.setInput(nil)
		s.rebake()
	case event.ActionQuit:
		s.shutdown()
	default:
		s.logger.Warn("unknown action", "action", ev.Action)
	}
}

// rebake starts the pipeline on the current input. A newer bake supersedes
// any still running; its result is dropped when it arrives.
func (s *Session) rebake() {
	if s.cancelBake != nil {
		s.cancelBake()
	}
	s.bakeSeq++
	seq := s.bakeSeq
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelBake = cancel

	input := bytes.Clone(s.input)
	baker := s.baker
	s.bake.Start()
	s.bakes.Add(1)

	go func() {
		res := pipeline.Run(ctx, baker, input)
		s.post(event.Event{
			Type: event.BakeFinished,
			Bake: event.Bake{Seq: seq, Payload: res.Payload, Elapsed: res.Elapsed, Err: res.Err},
		})
	}()
}

func (s *Session) finishBake(b event.Bake) {
	if b.Seq != s.bakeSeq {
		s.logger.Debug("stale bake dropped", "seq", b.Seq, "current", s.bakeSeq)
		return
	}
	if s.cancelBake != nil {
		s.cancelBake()
		s.cancelBake = nil
	}
	s.bake.Finish()

	if b.Err != nil {
		if errors.Is(b.Err, context.Canceled) {
			return
		}
		s.logger.Warn("bake failed", logging.FieldError, b.Err)
		s.ui.Notify("Bake failed: "+b.Err.Error(), noticeDuration)
		return
	}
	if err := s.store.Set(b.Payload, b.Elapsed); err != nil {
		s.logger.Error("bake result rejected", logging.FieldError, err)
		return
	}
	s.logger.Debug("bake finished",
		logging.FieldKind, b.Payload.Kind(),
		logging.FieldElapsed, b.Elapsed,
	)
}

func (s *Session) toggleHighlight() {
	d, ok := s.store.Current()
	if !ok || d.Kind != dish.Text {
		s.ui.Notify("Highlighting needs a text result", noticeDuration)
		return
	}
	if s.highlighter.Active() {
		s.highlighter.ClearHighlights()
		s.renderer.Render(d)
		return
	}
	out, err := s.highlighter.Highlight(d.Content)
	if err != nil {
		s.logger.Warn("highlight failed", logging.FieldError, err)
		s.ui.Notify("Highlighting failed", noticeDuration)
		return
	}
	s.ui.ShowHighlighted(out, s.highlighter.Language())
}

// refresh pushes affordances to the UI and updates the stats snapshot.
func (s *Session) refresh() {
	d, ok := s.store.Current()
	s.ui.SetAffordances(Affordances{
		CanSwitch:   s.transfer.CanSwitch(),
		CanUndo:     s.transfer.CanUndo(),
		CanSlice:    ok && d.HasBuffer(),
		Highlighted: s.highlighter.Active(),
	})

	s.statsMu.Lock()
	s.snapshot = dishSnapshot{
		kind:       d.Kind.String(),
		generation: d.Generation,
		bakeState:  s.bake.State().String(),
		prompts:    s.callbacks.Pending(),
	}
	if !ok {
		s.snapshot.kind = "none"
	}
	s.statsMu.Unlock()
}

// shutdown stops timers, cancels running bakes and asks the UI to exit.
func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.done)
		s.timer.CancelAll()
		s.ui.Quit()
	})
}

// Done closes when the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
