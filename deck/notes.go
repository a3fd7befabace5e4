package deck

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// NotesMarkdown renders the speaker notes as a Markdown handout: one section
// per slide, notes as bullets. Slides without notes keep their heading.
func NotesMarkdown(d *Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	for i, s := range d.Slides {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		for _, n := range s.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		if len(s.Notes) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// NotesHTML renders NotesMarkdown to an HTML fragment.
func NotesHTML(d *Deck) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(NotesMarkdown(d)), &buf); err != nil {
		return nil, fmt.Errorf("render notes: %w", err)
	}
	return buf.Bytes(), nil
}
