// Package pipeline holds the bakes galley can run on its own input.
// Real transformation chains live elsewhere; these cover plain viewing
// and markdown rendering.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/dish"
)

const (
	sniffSize             = 4096
	nonPrintableThreshold = 30
)

// Baker turns input bytes into a payload for the dish store.
type Baker interface {
	Name() string
	Bake(ctx context.Context, input []byte) (dish.Payload, error)
}

// Result is a finished bake.
type Result struct {
	Payload dish.Payload
	Elapsed time.Duration
	Err     error
}

// Run bakes input and times it.
func Run(ctx context.Context, b Baker, input []byte) Result {
	start := time.Now()
	p, err := b.Bake(ctx, input)
	if err != nil {
		err = fmt.Errorf("%s: %w", b.Name(), err)
	}
	return Result{Payload: p, Elapsed: time.Since(start), Err: err}
}

// Passthrough shows input as-is: text when it looks like text, bytes otherwise.
type Passthrough struct {
	Codec *codec.Codec
}

func (Passthrough) Name() string { return "passthrough" }

func (p Passthrough) Bake(ctx context.Context, input []byte) (dish.Payload, error) {
	if err := ctx.Err(); err != nil {
		return dish.Payload{}, err
	}
	if !IsText(input) {
		return dish.BinaryPayload(bytes.Clone(input)), nil
	}
	c := p.Codec
	if c == nil {
		c = codec.New(codec.Options{})
	}
	return dish.TextPayload(c.Decode(input)), nil
}

// Markdown renders CommonMark (with GFM tables and strikethrough) to HTML.
// Raw HTML, including script blocks, is passed through.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds the markdown bake.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (*Markdown) Name() string { return "markdown" }

func (m *Markdown) Bake(ctx context.Context, input []byte) (dish.Payload, error) {
	if err := ctx.Err(); err != nil {
		return dish.Payload{}, err
	}
	var buf bytes.Buffer
	if err := m.md.Convert(input, &buf); err != nil {
		return dish.Payload{}, err
	}
	return dish.MarkupPayload(buf.String()), nil
}

// ByName returns the bake registered under name.
func ByName(name string, c *codec.Codec) (Baker, error) {
	switch strings.ToLower(name) {
	case "", "passthrough", "raw":
		return Passthrough{Codec: c}, nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unknown bake %q", name)
	}
}

// ForFile picks a bake from the file extension.
func ForFile(path string, c *codec.Codec) Baker {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdown()
	default:
		return Passthrough{Codec: c}
	}
}

// IsText reports whether content looks like text.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}

	if hasUnicodeBOM(sample) {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThreshold
}

func hasUnicodeBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF})
}

func isTextByte(b byte) bool {
	switch b {
	case '\t', '\n', '\r', '\f', '\b':
		return true
	}
	return (b >= 0x20 && b < 0x7F) || b >= 0xA0
}
