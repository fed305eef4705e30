// Package render projects the dish store's state onto a display surface.
package render

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/drake/galley/dish"
	"github.com/drake/galley/internal/logging"
)

// Ensure Renderer implements dish.Renderer at compile time
var _ dish.Renderer = (*Renderer)(nil)

// FileInfo is what the surface shows in place of binary content.
type FileInfo struct {
	Size      int
	HumanSize string
}

// Surface is the display the renderer drives.
type Surface interface {
	ShowText(display string)
	ShowMarkup(markup string)
	ShowFileInfo(info FileInfo)
	CloseFileInfo()
	SetStats(block string)
}

// FragmentExecutor runs script fragments in order, returning one error slot
// per fragment. script.Engine satisfies it.
type FragmentExecutor interface {
	Execute(ctx context.Context, fragments []string) []error
}

// Options configures a Renderer.
type Options struct {
	Surface Surface
	// Executor runs fragments found in markup. Nil skips them.
	Executor FragmentExecutor
	Logger   *log.Logger
	// Context bounds fragment execution. Defaults to context.Background.
	Context context.Context
}

// Renderer dispatches on the dish kind. The three modes are mutually
// exclusive; every Render replaces whatever the previous one showed.
type Renderer struct {
	surface  Surface
	executor FragmentExecutor
	logger   *log.Logger
	ctx      context.Context

	mode     dish.Kind
	rendered bool
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Renderer{
		surface:  opts.Surface,
		executor: opts.Executor,
		logger:   logging.Named(opts.Logger, "render"),
		ctx:      ctx,
	}
}

// Mode reports the last rendered kind, false before the first render.
func (r *Renderer) Mode() (dish.Kind, bool) {
	return r.mode, r.rendered
}

// Render shows d and refreshes the stats block.
func (r *Renderer) Render(d dish.Dish) {
	switch d.Kind {
	case dish.Text:
		r.surface.ShowText(d.Content)
	case dish.Markup:
		r.surface.ShowMarkup(d.Content)
		r.runFragments(d.Content)
	case dish.Binary:
		r.surface.ShowFileInfo(FileInfo{
			Size:      d.ByteLength,
			HumanSize: humanize.Bytes(uint64(d.ByteLength)),
		})
	default:
		r.logger.Error("unknown dish kind", logging.FieldKind, d.Kind)
		return
	}
	r.mode, r.rendered = d.Kind, true
	r.surface.SetStats(FormatStats(d))
}

// CloseFileView hides the file information affordance.
func (r *Renderer) CloseFileView() {
	r.surface.CloseFileInfo()
}

func (r *Renderer) runFragments(markup string) {
	if r.executor == nil {
		return
	}
	fragments := ExtractFragments(markup)
	if len(fragments) == 0 {
		return
	}
	failed := 0
	for i, err := range r.executor.Execute(r.ctx, fragments) {
		if err != nil {
			failed++
			r.logger.Warn("script fragment failed", logging.FieldFragment, i+1, logging.FieldError, err)
		}
	}
	r.logger.Debug("script fragments run", "count", len(fragments), "failed", failed)
}
