package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/drake/galley/event"
	"github.com/drake/galley/internal/buffer"
	"github.com/drake/galley/render"
	"github.com/drake/galley/session"
	"github.com/drake/galley/ui/style"
)

// Ensure BubbleTeaUI implements session.UI at compile time
var _ session.UI = (*BubbleTeaUI)(nil)

// BubbleTeaUI implements session.UI using Bubble Tea.
// It bridges the session loop with Bubble Tea's model/update/view event
// loop: calls become messages, key presses become events. Calls made
// before Run block until the program loop starts.
type BubbleTeaUI struct {
	program *tea.Program

	outIn  chan<- event.Event
	outOut <-chan event.Event

	// Synchronization for startup
	ready     chan struct{}
	readyOnce sync.Once

	// Shutdown coordination
	done     chan struct{}
	doneOnce sync.Once
}

// NewBubbleTeaUI creates a new Bubble Tea-based UI. Extra program options
// are appended to the defaults (alt screen, input from the TTY).
func NewBubbleTeaUI(logger *log.Logger, opts ...tea.ProgramOption) *BubbleTeaUI {
	// Unbounded so Update never blocks on a busy session loop.
	outIn, outOut := buffer.Unbounded[event.Event](64, 4096, logger)

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithInputTTY(),
	}, opts...)

	return &BubbleTeaUI{
		program: tea.NewProgram(NewModel(outIn, style.DefaultStyles()), opts...),
		outIn:   outIn,
		outOut:  outOut,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (b *BubbleTeaUI) send(msg tea.Msg) {
	b.program.Send(msg)
}

// Run starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	b.readyOnce.Do(func() {
		close(b.ready)
	})

	_, err := b.program.Run()

	b.doneOnce.Do(func() {
		close(b.done)
	})
	return err
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	select {
	case <-b.ready:
		b.program.Quit()
	default:
		// Never started, nothing to stop
		b.doneOnce.Do(func() {
			close(b.done)
		})
	}
}

// Outbound carries user actions to the session.
func (b *BubbleTeaUI) Outbound() <-chan event.Event {
	return b.outOut
}

// --- render.Surface ---

func (b *BubbleTeaUI) ShowText(display string)           { b.send(showTextMsg(display)) }
func (b *BubbleTeaUI) ShowMarkup(markup string)          { b.send(showMarkupMsg(markup)) }
func (b *BubbleTeaUI) ShowFileInfo(info render.FileInfo) { b.send(fileInfoMsg(info)) }
func (b *BubbleTeaUI) CloseFileInfo()                    { b.send(closeFileInfoMsg{}) }
func (b *BubbleTeaUI) SetStats(block string)             { b.send(statsMsg(block)) }

// --- bake.Indicator ---

func (b *BubbleTeaUI) SetLoading(v bool)   { b.send(loadingMsg(v)) }
func (b *BubbleTeaUI) SetEditable(v bool)  { b.send(editableMsg(v)) }
func (b *BubbleTeaUI) ClearStatusMessage() { b.send(clearStatusMsg{}) }

// Notify shows msg in the status bar for d.
func (b *BubbleTeaUI) Notify(msg string, d time.Duration) {
	b.send(noticeMsg{Text: msg, Duration: d})
}

// SetInput mirrors the pipeline input into the input pane.
func (b *BubbleTeaUI) SetInput(text string, binary bool) {
	b.send(inputMsg{Text: text, Binary: binary})
}

// SetAffordances enables the action keys that currently do something.
func (b *BubbleTeaUI) SetAffordances(a session.Affordances) {
	b.send(affordancesMsg(a))
}

// ShowHighlighted overlays highlighted text on the output.
func (b *BubbleTeaUI) ShowHighlighted(text, language string) {
	b.send(showHighlightedMsg{Text: text, Language: language})
}

// ShowPrompt opens the one-line prompt; the answer comes back as a
// PromptReply event carrying id.
func (b *BubbleTeaUI) ShowPrompt(id, label, initial string) {
	b.send(promptMsg{ID: id, Label: label, Initial: initial})
}
