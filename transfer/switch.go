package transfer

import "github.com/drake/galley/internal/logging"

// CanSwitch reports whether SwitchToInput would do anything: there is a
// dish and it has not already been switched into the input.
func (t *Transfer) CanSwitch() bool {
	if _, ok := t.source.Current(); !ok {
		return false
	}
	return t.switchedGen != t.source.Generation()
}

// CanUndo reports whether UndoSwitch would restore anything.
func (t *Transfer) CanUndo() bool {
	return t.canUndo
}

// SwitchToInput makes the dish the new input, preferring its buffer over
// its text, and records the old input for UndoSwitch. It stays disabled
// until the store holds a newer dish.
func (t *Transfer) SwitchToInput() error {
	d, ok := t.source.Current()
	if !ok {
		return ErrNoDish
	}
	if !t.CanSwitch() {
		return ErrNothingToSwitch
	}

	var c Content
	if d.HasBuffer() {
		c.Bytes = append([]byte(nil), d.Buffer...)
	} else {
		c.Text = d.Text
	}

	t.record()
	t.switchedGen = d.Generation
	t.input.Switch(c)
	t.logger.Debug("dish switched to input",
		logging.FieldGeneration, d.Generation,
		"binary", c.IsBinary(),
	)
	return nil
}

// SwitchFileValue makes an out-of-band value, such as one entry of a
// multi-file listing, the new input. The old input is recorded for undo.
func (t *Transfer) SwitchFileValue(value string) {
	t.record()
	t.input.Switch(Content{Text: value})
	t.logger.Debug("file value switched to input", logging.FieldBytes, len(value))
}

// UndoSwitch restores the input recorded by the last switch. It works once
// per switch and reports whether anything was restored.
func (t *Transfer) UndoSwitch() bool {
	if !t.canUndo {
		return false
	}
	t.canUndo = false
	t.switchedGen = 0
	prior := t.priorInput
	t.priorInput = ""
	t.input.Restore(prior)
	t.logger.Debug("switch undone")
	return true
}

func (t *Transfer) record() {
	t.priorInput = t.input.Input()
	t.canUndo = true
}
