// Package platform adapts the host system's clipboard and filesystem to the
// transfer interfaces.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/drake/galley/transfer"
)

// Compile-time interface checks
var (
	_ transfer.Clipboard = SystemClipboard{}
	_ transfer.Saver     = (*DirSaver)(nil)
)

// ErrClipboardUnsupported is returned when no clipboard utility exists.
var ErrClipboardUnsupported = errors.New("platform: clipboard unsupported")

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteText implements transfer.Clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// DirSaver writes exports into a directory.
type DirSaver struct {
	Dir string
}

// SaveAs implements transfer.Saver. Only the base name of filename is used
// so a prompt answer cannot escape Dir.
func (s *DirSaver) SaveAs(data []byte, filename string) error {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid filename %q", filename)
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}
