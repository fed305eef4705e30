package dish

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/internal/logging"
)

// Codec supplies the text transforms the store derives views with.
type Codec interface {
	Printable(s string) string
	StripMarkup(s string) string
	Decode(b []byte) string
	Encode(s string) []byte
}

// Renderer projects a dish onto the display surface.
type Renderer interface {
	Render(d Dish)
	CloseFileView()
}

// Highlighter owns highlight overlays that go stale when the dish changes.
type Highlighter interface {
	ClearHighlights()
}

// Options configures a Store.
type Options struct {
	// Codec defaults to codec.New with default options.
	Codec       Codec
	Renderer    Renderer
	Highlighter Highlighter
	Logger      *log.Logger
	// Clock times slice decodes. Defaults to time.Now.
	Clock func() time.Time
}

// Store owns the current dish. It is not safe for concurrent use; the
// session loop is its only caller.
type Store struct {
	codec       Codec
	renderer    Renderer
	highlighter Highlighter
	logger      *log.Logger
	clock       func() time.Time

	dish       *Dish
	generation uint64

	// filename outlives individual dishes.
	filename string
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	s := &Store{
		codec:       opts.Codec,
		renderer:    opts.Renderer,
		highlighter: opts.Highlighter,
		logger:      logging.Named(opts.Logger, "dish"),
		clock:       opts.Clock,
	}
	if s.codec == nil {
		s.codec = codec.New(codec.Options{})
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.highlighter == nil {
		s.highlighter = nopHighlighter{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// SetOption modifies a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	preserve bool
}

// Preserve keeps the buffer of the current dish alive in the new one.
// Only slice views use this: they re-render text derived from the same
// buffer without discarding it.
func Preserve() SetOption {
	return func(o *setOptions) { o.preserve = true }
}

// Set replaces the current dish with p. Unless Preserve is given, the file
// view is closed and any previous buffer dropped first. Highlights are
// cleared and the renderer is told to project the new dish.
func (s *Store) Set(p Payload, d time.Duration, opts ...SetOption) error {
	if err := p.validate(); err != nil {
		return err
	}
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	var retained []byte
	if o.preserve {
		if s.dish != nil {
			retained = s.dish.Buffer
		}
	} else {
		s.renderer.CloseFileView()
	}

	next := Dish{Kind: p.kind, Duration: d}
	switch p.kind {
	case Markup:
		next.Content = p.str
		next.Text = s.codec.StripMarkup(p.str)
		next.ByteLength = len(p.str)
		next.CharLength = utf8.RuneCountInString(p.str)
		next.Lines, next.HasLines = countLines(next.Text), true
	case Binary:
		next.Buffer = p.buf
		next.ByteLength = len(p.buf)
	case Text:
		next.Content = s.codec.Printable(p.str)
		next.Text = p.str
		next.ByteLength = len(p.str)
		next.CharLength = utf8.RuneCountInString(p.str)
		next.Lines, next.HasLines = countLines(p.str), true
	}
	if next.Buffer == nil && retained != nil {
		next.Buffer = retained
	}

	s.generation++
	next.Generation = s.generation
	s.dish = &next

	s.logger.Debug("dish set",
		logging.FieldKind, next.Kind,
		logging.FieldGeneration, next.Generation,
		logging.FieldBytes, next.ByteLength,
		"preserve", o.preserve,
	)

	s.highlighter.ClearHighlights()
	s.renderer.Render(next)
	return nil
}

// Clear closes the file view, drops the buffer and leaves an empty text dish.
func (s *Store) Clear() {
	_ = s.Set(TextPayload(""), 0)
}

// Current returns a copy of the current dish.
func (s *Store) Current() (Dish, bool) {
	if s.dish == nil {
		return Dish{}, false
	}
	return *s.dish, true
}

// Text returns the canonical text of the current dish.
func (s *Store) Text() string {
	if s.dish == nil {
		return ""
	}
	return s.dish.Text
}

// Buffer returns the raw buffer of the current dish. The slice belongs to
// the store and must not be kept across the next Set.
func (s *Store) Buffer() ([]byte, bool) {
	if s.dish == nil || s.dish.Buffer == nil {
		return nil, false
	}
	return s.dish.Buffer, true
}

// Bytes materializes the current dish as bytes: the buffer when held,
// otherwise the encoded canonical text.
func (s *Store) Bytes() []byte {
	if buf, ok := s.Buffer(); ok {
		return buf
	}
	return s.codec.Encode(s.Text())
}

// Generation increases on every Set.
func (s *Store) Generation() uint64 {
	return s.generation
}

// Filename returns the last chosen export name.
func (s *Store) Filename() string {
	return s.filename
}

// SetFilename records the export name for the next download.
func (s *Store) SetFilename(name string) {
	s.filename = name
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

type nopRenderer struct{}

func (nopRenderer) Render(Dish)    {}
func (nopRenderer) CloseFileView() {}

type nopHighlighter struct{}

func (nopHighlighter) ClearHighlights() {}
