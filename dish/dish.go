// Package dish holds the current computed result and its derived views.
package dish

import (
	"errors"
	"time"
)

var (
	// ErrNoBuffer is returned when an operation needs the raw buffer but
	// the current dish has none (never had one, or it was cleared).
	ErrNoBuffer = errors.New("dish: no buffer")
	// ErrKindMismatch is returned when a payload carries data of the wrong
	// shape for its kind.
	ErrKindMismatch = errors.New("dish: payload does not match kind")
)

// Dish is one result, replaced wholesale on every Set.
type Dish struct {
	Kind Kind

	// Content is what the renderer shows: the printable form for Text,
	// the verbatim markup for Markup, empty for Binary.
	Content string

	// Text is the canonical string. Copy and export use this, never Content.
	Text string

	// Buffer is the raw result. Present for Binary, or for a text view
	// derived from a retained buffer. Do not keep it across Set.
	Buffer []byte

	ByteLength int
	CharLength int

	// Lines is only meaningful when HasLines is set.
	Lines    int
	HasLines bool

	// Duration is how long the bake took. Informational.
	Duration time.Duration

	Generation uint64
}

// LineCount reports the number of lines, or false when not applicable.
func (d Dish) LineCount() (int, bool) {
	return d.Lines, d.HasLines
}

// HasBuffer reports whether a raw buffer is held.
func (d Dish) HasBuffer() bool {
	return d.Buffer != nil
}

// Length is the size shown to the user: bytes for binary dishes,
// characters otherwise.
func (d Dish) Length() int {
	if d.Kind == Binary {
		return d.ByteLength
	}
	return d.CharLength
}

// Payload is the data handed to Set. Build one with TextPayload,
// MarkupPayload or BinaryPayload.
type Payload struct {
	kind Kind
	str  string
	buf  []byte
}

// TextPayload wraps a plain string result.
func TextPayload(s string) Payload { return Payload{kind: Text, str: s} }

// MarkupPayload wraps a markup result.
func MarkupPayload(s string) Payload { return Payload{kind: Markup, str: s} }

// BinaryPayload wraps a byte result. A nil slice is stored as empty.
func BinaryPayload(b []byte) Payload {
	if b == nil {
		b = []byte{}
	}
	return Payload{kind: Binary, buf: b}
}

// Kind returns the kind the payload was built for.
func (p Payload) Kind() Kind { return p.kind }

func (p Payload) validate() error {
	switch p.kind {
	case Text, Markup:
		if p.buf != nil {
			return ErrKindMismatch
		}
	case Binary:
		if p.buf == nil {
			return ErrKindMismatch
		}
	default:
		return ErrKindMismatch
	}
	return nil
}
