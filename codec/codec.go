// Package codec converts between the byte and string forms of a dish.
//
// It owns the three text transforms the dish store relies on: the printable
// display form, markup stripping, and byte decoding.
package codec

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	xunicode "golang.org/x/text/encoding/unicode"
)

// DefaultPlaceholder replaces unprintable runes in the display form.
const DefaultPlaceholder = '.'

// Options controls the printable transform.
type Options struct {
	// Placeholder substitutes every unprintable rune. Zero means DefaultPlaceholder.
	Placeholder rune
	// ControlPictures renders C0 controls and DEL as their Unicode
	// control-picture glyphs (U+2400 block) instead of the placeholder.
	ControlPictures bool
}

// Codec is the default byte/text codec.
type Codec struct {
	placeholder     rune
	controlPictures bool
}

// New creates a Codec.
func New(opts Options) *Codec {
	p := opts.Placeholder
	if p == 0 {
		p = DefaultPlaceholder
	}
	return &Codec{placeholder: p, controlPictures: opts.ControlPictures}
}

// Printable returns s with every unprintable rune replaced. Tab, newline and
// carriage return are kept so the layout of the text survives.
func (c *Codec) Printable(s string) string {
	clean := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if keep(r, size) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(c.substitute(r, size))
	}
	return b.String()
}

func keep(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	switch r {
	case '\t', '\n', '\r':
		return true
	}
	return unicode.IsGraphic(r)
}

func (c *Codec) substitute(r rune, size int) rune {
	if !c.controlPictures || (r == utf8.RuneError && size <= 1) {
		return c.placeholder
	}
	switch {
	case r < 0x20:
		return 0x2400 + r
	case r == 0x7f:
		return 0x2421
	}
	return c.placeholder
}

// StripMarkup removes tags, comments and the bodies of script and style
// elements, leaving the unescaped text a reader would see.
func (c *Codec) StripMarkup(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	var hidden atom.Atom
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Script || a == atom.Style {
				hidden = a
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == hidden {
				hidden = 0
			}
		case html.TextToken:
			if hidden == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Decode turns raw bytes into a string. UTF-8 and UTF-16 byte order marks
// are honoured; anything else is taken as UTF-8 verbatim and left for the
// printable transform to clean up.
func (c *Codec) Decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	switch {
	case len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		return string(b[3:])
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		return decodeUTF16(b, xunicode.LittleEndian)
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return decodeUTF16(b, xunicode.BigEndian)
	}
	return string(b)
}

func decodeUTF16(b []byte, endian xunicode.Endianness) string {
	out, err := xunicode.UTF16(endian, xunicode.ExpectBOM).NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// Encode turns text back into bytes for export.
func (c *Codec) Encode(s string) []byte {
	return []byte(s)
}

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
