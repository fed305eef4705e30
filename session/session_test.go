package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/galley/dish"
	"github.com/drake/galley/event"
	"github.com/drake/galley/internal/logging"
	"github.com/drake/galley/pipeline"
	"github.com/drake/galley/render"
)

// fakeUI records what the session shows. All methods run on the test
// goroutine because tests drive handleEvent directly.
type fakeUI struct {
	text        string
	markup      string
	info        *render.FileInfo
	stats       string
	input       string
	inputBinary bool
	aff         Affordances
	notices     []string
	prompts     []fakePrompt
	highlighted string
	language    string
	loading     bool
	editable    bool

	outbound chan event.Event
	done     chan struct{}
}

type fakePrompt struct {
	id, label, initial string
}

func newFakeUI() *fakeUI {
	return &fakeUI{
		editable: true,
		outbound: make(chan event.Event),
		done:     make(chan struct{}),
	}
}

func (u *fakeUI) ShowText(s string)                 { u.text, u.markup, u.highlighted = s, "", "" }
func (u *fakeUI) ShowMarkup(s string)               { u.markup, u.text, u.highlighted = s, "", "" }
func (u *fakeUI) ShowFileInfo(info render.FileInfo) { u.info = &info }
func (u *fakeUI) CloseFileInfo()                    { u.info = nil }
func (u *fakeUI) SetStats(block string)             { u.stats = block }
func (u *fakeUI) SetLoading(v bool)                 { u.loading = v }
func (u *fakeUI) SetEditable(v bool)                { u.editable = v }
func (u *fakeUI) ClearStatusMessage()               {}
func (u *fakeUI) Notify(msg string, _ time.Duration) {
	u.notices = append(u.notices, msg)
}
func (u *fakeUI) Run() error                     { return nil }
func (u *fakeUI) Quit()                          {}
func (u *fakeUI) Done() <-chan struct{}          { return u.done }
func (u *fakeUI) Outbound() <-chan event.Event   { return u.outbound }
func (u *fakeUI) SetInput(text string, bin bool) { u.input, u.inputBinary = text, bin }
func (u *fakeUI) SetAffordances(a Affordances)   { u.aff = a }
func (u *fakeUI) ShowHighlighted(text, lang string) {
	u.highlighted, u.language = text, lang
}
func (u *fakeUI) ShowPrompt(id, label, initial string) {
	u.prompts = append(u.prompts, fakePrompt{id, label, initial})
}

func (u *fakeUI) lastPrompt(t *testing.T) fakePrompt {
	t.Helper()
	require.NotEmpty(t, u.prompts, "no prompt shown")
	return u.prompts[len(u.prompts)-1]
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

type fakeSaver struct {
	data []byte
	name string
}

func (s *fakeSaver) SaveAs(data []byte, name string) error {
	s.data, s.name = append([]byte(nil), data...), name
	return nil
}

func newTestSession(t *testing.T, cfg Config) (*Session, *fakeUI) {
	t.Helper()
	ui := newFakeUI()
	if cfg.Debounce == 0 {
		cfg.Debounce = time.Hour
	}
	cfg.Logger = logging.Discard()
	s, err := New(ui, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.shutdown()
		s.engine.Close()
	})
	return s, ui
}

// nextEvent waits for the next queued session event.
func nextEvent(t *testing.T, s *Session) event.Event {
	t.Helper()
	select {
	case ev := <-s.eventsOut:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}

// settle handles bake results until the latest bake has landed.
func settle(t *testing.T, s *Session) {
	t.Helper()
	for {
		ev := nextEvent(t, s)
		s.handleEvent(ev)
		if ev.Type == event.BakeFinished && ev.Bake.Seq == s.bakeSeq {
			return
		}
	}
}

func load(t *testing.T, s *Session, input string) {
	t.Helper()
	s.handleEvent(event.Event{Type: event.InputChanged, Payload: input})
	settle(t, s)
}

func action(s *Session, a event.Action) {
	s.handleEvent(event.Event{Type: event.UserAction, Action: a})
}

func reply(s *Session, id, value string, ok bool) {
	s.handleEvent(event.Event{Type: event.PromptReply, PromptID: id, Payload: value, OK: ok})
}

func TestLoadTextRendersWithStats(t *testing.T) {
	s, ui := newTestSession(t, Config{})

	load(t, s, "hello\nworld")

	assert.Equal(t, "hello\nworld", ui.text)
	assert.Contains(t, ui.stats, "length:")
	assert.Contains(t, ui.stats, "lines:    2")
	assert.Equal(t, "hello\nworld", ui.input)
	assert.False(t, ui.inputBinary)
	assert.False(t, ui.loading)
	assert.True(t, ui.editable)
	assert.True(t, ui.aff.CanSwitch)
	assert.False(t, ui.aff.CanSlice)
}

func TestBinaryInputShowsFileInfo(t *testing.T) {
	s, ui := newTestSession(t, Config{})

	load(t, s, "\x00\x01\x02")

	require.NotNil(t, ui.info)
	assert.Equal(t, 3, ui.info.Size)
	assert.Equal(t, "3 B", ui.info.HumanSize)
	assert.NotContains(t, ui.stats, "lines:")
	assert.True(t, ui.inputBinary)
	assert.True(t, ui.aff.CanSlice)
}

func TestSwitchAndUndo(t *testing.T) {
	s, ui := newTestSession(t, Config{Baker: pipeline.NewMarkdown()})

	load(t, s, "# hi")
	require.Equal(t, "<h1>hi</h1>\n", ui.markup)

	action(s, event.ActionSwitch)
	assert.Equal(t, "hi\n", s.Input())
	assert.Equal(t, "hi\n", ui.input)
	assert.False(t, ui.aff.CanSwitch, "switch disabled until the next dish")
	assert.True(t, ui.aff.CanUndo)

	settle(t, s)
	assert.True(t, ui.aff.CanSwitch)

	action(s, event.ActionUndo)
	assert.Equal(t, "# hi", s.Input())
	assert.False(t, ui.aff.CanUndo)
	settle(t, s)
	assert.Equal(t, "<h1>hi</h1>\n", ui.markup)

	action(s, event.ActionUndo)
	assert.Equal(t, "# hi", s.Input(), "second undo is a no-op")
}

func TestSwitchBinaryKeepsBytes(t *testing.T) {
	s, ui := newTestSession(t, Config{})

	load(t, s, "\x00\xff")
	s.input = []byte("something else")

	action(s, event.ActionSwitch)
	assert.Equal(t, []byte("\x00\xff"), s.input)
	assert.True(t, ui.inputBinary)
}

func TestFileValueSwitch(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "listing")

	s.handleEvent(event.Event{Type: event.UserAction, Action: event.ActionFileValue, Payload: "one file"})
	assert.Equal(t, "one file", ui.input)
	assert.True(t, ui.aff.CanUndo)
	settle(t, s)
	assert.Equal(t, "one file", ui.text)

	action(s, event.ActionUndo)
	assert.Equal(t, "listing", s.Input())
}

func TestCopy(t *testing.T) {
	clip := &fakeClipboard{}
	s, ui := newTestSession(t, Config{Clipboard: clip})
	load(t, s, "copy me")

	action(s, event.ActionCopy)
	assert.Equal(t, "copy me", clip.text)

	clip.err = errors.New("no display")
	action(s, event.ActionCopy)
	assert.Contains(t, ui.notices, "Copying to clipboard failed")
}

func TestDownloadPromptsAndSaves(t *testing.T) {
	saver := &fakeSaver{}
	s, ui := newTestSession(t, Config{Saver: saver})
	load(t, s, "data")

	action(s, event.ActionDownload)
	p := ui.lastPrompt(t)
	assert.Equal(t, "Save as", p.label)
	assert.Equal(t, "download.dat", p.initial)
	assert.Equal(t, 1, s.callbacks.Pending())

	reply(s, p.id, "out.txt", true)
	assert.Equal(t, []byte("data"), saver.data)
	assert.Equal(t, "out.txt", saver.name)
	assert.Contains(t, ui.notices, "Saved out.txt")
	assert.Zero(t, s.callbacks.Pending())

	action(s, event.ActionDownload)
	assert.Equal(t, "out.txt", ui.lastPrompt(t).initial)
}

func TestDownloadDismissed(t *testing.T) {
	saver := &fakeSaver{}
	s, ui := newTestSession(t, Config{Saver: saver, DefaultFilename: "result.bin"})
	load(t, s, "data")

	action(s, event.ActionDownload)
	p := ui.lastPrompt(t)
	assert.Equal(t, "result.bin", p.initial)

	reply(s, p.id, "ignored", false)
	assert.Empty(t, saver.name)
	assert.Zero(t, s.callbacks.Pending())
}

func TestSliceViaPrompt(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "\x00hello")

	action(s, event.ActionSlice)
	p := ui.lastPrompt(t)
	assert.Equal(t, "0:6", p.initial)

	reply(s, p.id, "1:", true)
	assert.Equal(t, "hello", ui.text)
	assert.True(t, ui.aff.CanSlice, "slice keeps the buffer")

	buf, ok := s.store.Buffer()
	require.True(t, ok)
	assert.Equal(t, []byte("\x00hello"), buf)
}

func TestSliceBadRangeNotifies(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "\x00hello")

	action(s, event.ActionSlice)
	reply(s, ui.lastPrompt(t).id, "a:b", true)
	assert.Contains(t, ui.notices, `bad slice start "a"`)
}

func TestSliceWithoutBuffer(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "just text")

	action(s, event.ActionSlice)
	assert.Empty(t, ui.prompts)
	assert.Contains(t, ui.notices, "No buffer to slice")

	s.Slice(0, 2)
	assert.Equal(t, []string{"No buffer to slice", "No buffer to slice"}, ui.notices)
}

func TestCloseClearsBinaryView(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "\x00\x01")
	require.NotNil(t, ui.info)

	action(s, event.ActionClose)
	assert.Nil(t, ui.info)
	assert.Equal(t, "", ui.text)
	assert.False(t, ui.aff.CanSlice)
	_, ok := s.store.Buffer()
	assert.False(t, ok)
}

func TestStaleBakeIsDropped(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	s.input = []byte("first")
	s.rebake()
	s.input = []byte("second")
	s.rebake()

	settle(t, s)
	assert.Equal(t, "second", s.store.Text())
	assert.Equal(t, uint64(1), s.store.Generation())
	assert.Equal(t, uint64(2), s.Stats().Bakes)
}

func TestBakeFailureNotifies(t *testing.T) {
	s, ui := newTestSession(t, Config{Baker: failingBaker{}})
	load(t, s, "x")

	assert.Contains(t, ui.notices, "Bake failed: broken: boom")
	_, ok := s.store.Current()
	assert.False(t, ok)
	assert.True(t, ui.editable)
}

func TestSlowBakeShowsIndicator(t *testing.T) {
	s, ui := newTestSession(t, Config{Debounce: time.Millisecond})

	s.handleEvent(event.Event{Type: event.InputChanged, Payload: "slow"})

	select {
	case evt := <-s.timerEvents:
		assert.True(t, s.bake.OnTimer(evt.ID))
	case <-time.After(2 * time.Second):
		t.Fatal("debounce timer never fired")
	}
	assert.True(t, ui.loading)
	assert.False(t, ui.editable)

	settle(t, s)
	assert.False(t, ui.loading)
	assert.True(t, ui.editable)
}

func TestMarkupFragmentsReachHost(t *testing.T) {
	s, ui := newTestSession(t, Config{Baker: pipeline.NewMarkdown()})

	load(t, s, "x\n\n<script>galley.notify('kind=' .. galley.kind())</script>\n")

	assert.Contains(t, ui.notices, "kind=markup")
	assert.Equal(t, 1, s.Stats().CachedFragments)
}

func TestHighlightToggle(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "#!/bin/sh\necho hi\n")

	action(s, event.ActionHighlight)
	assert.NotEmpty(t, ui.highlighted)
	assert.Equal(t, "shell", ui.language)
	assert.True(t, ui.aff.Highlighted)

	action(s, event.ActionHighlight)
	assert.Empty(t, ui.highlighted)
	assert.Equal(t, "#!/bin/sh\necho hi\n", ui.text)
	assert.False(t, ui.aff.Highlighted)
}

func TestHighlightNeedsText(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "\x00")

	action(s, event.ActionHighlight)
	assert.Contains(t, ui.notices, "Highlighting needs a text result")
}

func TestNewDishClearsHighlight(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "#!/bin/sh\necho hi\n")
	action(s, event.ActionHighlight)
	require.True(t, ui.aff.Highlighted)

	action(s, event.ActionRebake)
	settle(t, s)
	assert.False(t, ui.aff.Highlighted)
}

func TestClearInput(t *testing.T) {
	s, ui := newTestSession(t, Config{})
	load(t, s, "abc")

	action(s, event.ActionClear)
	settle(t, s)
	assert.Equal(t, "", ui.input)
	assert.Equal(t, "", ui.text)
}

func TestAsyncResultRunsOnLoop(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	ran := false
	s.handleEvent(event.Event{Type: event.AsyncResult, Callback: func() { ran = true }})
	assert.True(t, ran)
}

func TestQuitShutsDown(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	action(s, event.ActionQuit)

	select {
	case <-s.Done():
	default:
		t.Fatal("session still running")
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	load(t, s, "abc")

	st := s.Stats()
	assert.Equal(t, "text", st.DishKind)
	assert.Equal(t, uint64(1), st.Generation)
	assert.Equal(t, "idle", st.BakeState)
	assert.GreaterOrEqual(t, st.EventsProcessed, uint64(2))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		wantErr  bool
	}{
		{"2:5", 2, 5, false},
		{"3:", 3, 10, false},
		{":4", 0, 4, false},
		{"7", 7, 10, false},
		{"", 0, 10, false},
		{" 1 : 2 ", 1, 2, false},
		{"x:2", 0, 0, true},
		{"1:y", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, err := ParseRange(tt.in, 10)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

type failingBaker struct{}

func (failingBaker) Name() string { return "broken" }

func (failingBaker) Bake(context.Context, []byte) (dish.Payload, error) {
	return dish.Payload{}, errors.New("boom")
}
