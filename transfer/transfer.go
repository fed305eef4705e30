// Package transfer moves the current dish out of the store: to the
// clipboard, to a file, or back into the pipeline's input.
package transfer

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/dish"
	"github.com/drake/galley/internal/logging"
)

// DefaultFilename is offered when no export name has been chosen yet.
const DefaultFilename = "download.dat"

// noticeDuration is how long transient notices stay up.
const noticeDuration = 2 * time.Second

var (
	// ErrNoDish is returned when there is nothing to transfer.
	ErrNoDish = errors.New("transfer: no dish")
	// ErrNothingToSwitch is returned when the current dish was already
	// switched into the input.
	ErrNothingToSwitch = errors.New("transfer: dish already switched to input")
)

// Source is the read side of the dish store.
type Source interface {
	Current() (dish.Dish, bool)
	Bytes() []byte
	Generation() uint64
	Filename() string
	SetFilename(name string)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Saver hands bytes to the platform's save mechanism.
type Saver interface {
	SaveAs(data []byte, filename string) error
}

// Prompter asks the user for a filename. reply runs on the session loop
// with ok false when the user cancelled.
type Prompter interface {
	PromptFilename(defaultName string, reply func(name string, ok bool))
}

// Notifier shows transient notices.
type Notifier interface {
	Notify(msg string, d time.Duration)
}

// Content is what the input stage receives: bytes when the dish held a
// buffer, text otherwise.
type Content struct {
	Text  string
	Bytes []byte
}

// IsBinary reports whether c carries bytes.
func (c Content) IsBinary() bool {
	return c.Bytes != nil
}

// InputStage is the pipeline's input.
type InputStage interface {
	// Input returns the current input as text.
	Input() string
	// Switch replaces the input with c.
	Switch(c Content)
	// Restore puts back input recorded before a switch.
	Restore(prior string)
}

// Options wires a Transfer to its collaborators.
type Options struct {
	Source    Source
	Clipboard Clipboard
	Saver     Saver
	Prompter  Prompter
	Input     InputStage
	Notifier  Notifier
	Logger    *log.Logger
	// Fallback is the filename offered before any export. Defaults to
	// DefaultFilename.
	Fallback string
}

// Transfer implements the transfer operations. Like the store, it is only
// used from the session loop.
type Transfer struct {
	source    Source
	clipboard Clipboard
	saver     Saver
	prompter  Prompter
	input     InputStage
	notifier  Notifier
	logger    *log.Logger
	fallback  string

	// Input recorded by the last switch, for undo.
	priorInput string
	canUndo    bool

	// Generation of the dish last switched into the input; 0 if none.
	switchedGen uint64
}

// New creates a Transfer.
func New(opts Options) *Transfer {
	fallback := opts.Fallback
	if fallback == "" {
		fallback = DefaultFilename
	}
	t := &Transfer{
		source:    opts.Source,
		clipboard: opts.Clipboard,
		saver:     opts.Saver,
		prompter:  opts.Prompter,
		input:     opts.Input,
		notifier:  opts.Notifier,
		logger:    logging.Named(opts.Logger, "transfer"),
		fallback:  fallback,
	}
	if t.notifier == nil {
		t.notifier = nopNotifier{}
	}
	return t
}

func (t *Transfer) notify(msg string) {
	t.notifier.Notify(msg, noticeDuration)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, time.Duration) {}
