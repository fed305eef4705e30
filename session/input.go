package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/drake/galley/dish"
	"github.com/drake/galley/pipeline"
	"github.com/drake/galley/transfer"
)

// --- transfer.InputStage ---

// Input returns the pipeline input as text.
func (s *Session) Input() string {
	return string(s.input)
}

// Switch replaces the pipeline input and rebakes.
func (s *Session) Switch(c transfer.Content) {
	if c.IsBinary() {
		s.setInput(c.Bytes)
	} else {
		s.setInput([]byte(c.Text))
	}
	s.rebake()
}

// Restore puts back input recorded before a switch and rebakes.
func (s *Session) Restore(prior string) {
	s.setInput([]byte(prior))
	s.rebake()
}

func (s *Session) setInput(b []byte) {
	s.input = b
	s.ui.SetInput(string(b), !pipeline.IsText(b))
}

// --- transfer.Prompter ---

// PromptFilename shows the filename prompt. reply runs on the session loop
// when the UI answers.
func (s *Session) PromptFilename(defaultName string, reply func(name string, ok bool)) {
	id := s.callbacks.Register(reply)
	s.ui.ShowPrompt(id, "Save as", defaultName)
}

// --- slice view ---

func (s *Session) promptSlice() {
	d, ok := s.store.Current()
	if !ok || !d.HasBuffer() {
		s.ui.Notify("No buffer to slice", noticeDuration)
		return
	}
	size := d.ByteLength
	id := s.callbacks.Register(func(value string, ok bool) {
		if !ok {
			return
		}
		from, to, err := ParseRange(value, size)
		if err != nil {
			s.ui.Notify(err.Error(), noticeDuration)
			return
		}
		s.Slice(from, to)
	})
	s.ui.ShowPrompt(id, "Slice bytes", fmt.Sprintf("0:%d", size))
}

// Slice shows bytes [from, to) of the current buffer as text. Must be
// called on the session loop.
func (s *Session) Slice(from, to int) {
	if err := s.store.DisplaySlice(from, to); err != nil {
		if errors.Is(err, dish.ErrNoBuffer) {
			s.ui.Notify("No buffer to slice", noticeDuration)
			return
		}
		s.logger.Warn("slice failed", "err", err)
	}
}

// ParseRange parses "from:to" byte offsets. Either side may be omitted:
// "10:" runs to size and ":10" starts at zero. A single number is a start
// offset. Range checks are left to the slice itself, which clamps.
func ParseRange(value string, size int) (from, to int, err error) {
	value = strings.TrimSpace(value)
	start, end, found := strings.Cut(value, ":")
	if !found {
		end = ""
	}

	from, to = 0, size
	if start = strings.TrimSpace(start); start != "" {
		if from, err = strconv.Atoi(start); err != nil {
			return 0, 0, fmt.Errorf("bad slice start %q", start)
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		if to, err = strconv.Atoi(end); err != nil {
			return 0, 0, fmt.Errorf("bad slice end %q", end)
		}
	}
	return from, to, nil
}
