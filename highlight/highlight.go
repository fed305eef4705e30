// Package highlight colours text-mode dishes for the terminal.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

const (
	defaultStyleName = "monokai"
	plainLanguage    = "text"
)

// candidates narrows the classifier to languages a bake plausibly emits.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "SQL", "JSON", "YAML", "TOML", "XML", "HTML",
	"CSS", "Markdown", "Lua", "INI", "Diff",
}

// Highlighter owns the highlight overlay of the output. It satisfies
// dish.Highlighter: a new dish clears the overlay.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter

	active   bool
	language string
}

// New creates a Highlighter with the named chroma style. Unknown names fall
// back to the default style.
func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = defaultStyleName
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: formatters.Get("terminal256"),
	}
}

// Detect guesses the language of text, or "text" when unsure.
func Detect(text string) string {
	content := []byte(text)
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return strings.ToLower(lang)
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return strings.ToLower(lang)
	}
	if l := lexers.Analyse(text); l != nil {
		return strings.ToLower(l.Config().Name)
	}
	return plainLanguage
}

// Highlight returns text coloured with ANSI escapes and marks the overlay
// active.
func (h *Highlighter) Highlight(text string) (string, error) {
	lang := Detect(text)
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", err
	}
	h.active = true
	h.language = lang
	return b.String(), nil
}

// Active reports whether an overlay is showing.
func (h *Highlighter) Active() bool {
	return h.active
}

// Language returns the language of the active overlay.
func (h *Highlighter) Language() string {
	return h.language
}

// ClearHighlights drops the overlay.
func (h *Highlighter) ClearHighlights() {
	h.active = false
	h.language = ""
}
