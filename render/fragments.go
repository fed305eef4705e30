package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractFragments returns the bodies of the script elements in markup, in
// document order. Empty bodies are skipped, as is anything inside comments.
func ExtractFragments(markup string) []string {
	var out []string
	z := html.NewTokenizer(strings.NewReader(markup))
	inScript := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			name, _ := z.TagName()
			inScript = atom.Lookup(name) == atom.Script
		case html.EndTagToken:
			inScript = false
		case html.TextToken:
			if !inScript {
				continue
			}
			if body := string(z.Text()); strings.TrimSpace(body) != "" {
				out = append(out, body)
			}
		}
	}
}
