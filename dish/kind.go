package dish

import "fmt"

// Kind identifies which representation of a dish is authoritative.
type Kind int

const (
	// Text is a plain string result, displayed in its printable form.
	Text Kind = iota
	// Markup is rendered markup, displayed verbatim.
	Markup
	// Binary is a raw byte buffer, displayed as file information.
	Binary
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Markup:
		return "markup"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "markup", "html":
		return Markup, nil
	case "binary", "bytes":
		return Binary, nil
	}
	return Text, fmt.Errorf("unknown dish kind %q", s)
}
