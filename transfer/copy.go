package transfer

import "github.com/drake/galley/internal/logging"

// Copy writes the canonical text of the dish to the clipboard. It reports
// success; failure is shown as a notice and never touches the store.
func (t *Transfer) Copy() bool {
	d, ok := t.source.Current()
	if !ok {
		t.notify("Nothing to copy")
		return false
	}
	if t.clipboard == nil {
		t.notify("Clipboard unavailable")
		return false
	}
	if err := t.clipboard.WriteText(d.Text); err != nil {
		t.logger.Warn("clipboard write failed", logging.FieldError, err)
		t.notify("Copying to clipboard failed")
		return false
	}
	t.notify("Copied raw output successfully")
	return true
}
