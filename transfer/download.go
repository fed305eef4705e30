package transfer

import (
	"strings"

	"github.com/drake/galley/internal/logging"
)

// Download prompts for a filename and saves the dish under it. A dish with
// no buffer is saved as its encoded text. Cancelling the prompt does
// nothing.
func (t *Transfer) Download() {
	if _, ok := t.source.Current(); !ok {
		t.notify("Nothing to download")
		return
	}
	def := t.source.Filename()
	if def == "" {
		def = t.fallback
	}
	if t.prompter == nil {
		t.save(def)
		return
	}
	t.prompter.PromptFilename(def, func(name string, ok bool) {
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			t.logger.Debug("download cancelled")
			return
		}
		t.save(name)
	})
}

func (t *Transfer) save(name string) {
	t.source.SetFilename(name)
	if t.saver == nil {
		t.notify("Saving is unavailable")
		return
	}
	data := t.source.Bytes()
	if err := t.saver.SaveAs(data, name); err != nil {
		t.logger.Warn("save failed", logging.FieldFilename, name, logging.FieldError, err)
		t.notify("Saving " + name + " failed")
		return
	}
	t.logger.Info("dish saved", logging.FieldFilename, name, logging.FieldBytes, len(data))
	t.notify("Saved " + name)
}
