/*
Package deck builds a briefing slide deck from YAML content.

PURPOSE:
  Slide text lives in a YAML document so it can be edited without touching
  code. The package loads and validates that document, renders it to PPTX
  and renders the speaker notes as a handout.

CONTENT FORMAT:
  title: Deck title
  accent: "192A56"          # RRGGBB, used for text and shape glyphs
  slides:
    - title: Slide title
      body: [line, line]
      notes: [note, note]
      shapes:
        - {kind: circle, x: 2, y: 6, w: 1.5, h: 1.5, color: "C8DCFF"}

  Shape positions are inches on a 16x9 canvas. Build scales them to the
  10x5.625 inch slide the writer produces.

SEE ALSO:
  - default.yaml: Built-in content
  - pptx.go: PPTX rendering
  - notes.go: Speaker-notes handout
*/
package deck

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultContent []byte

// ErrInvalidDeck is wrapped by every validation failure.
var ErrInvalidDeck = errors.New("invalid deck")

// Shape kinds.
const (
	ShapeCircle    = "circle"
	ShapeArrow     = "arrow"
	ShapeRectangle = "rectangle"
)

// DefaultShapeColor fills shapes that set no color.
const DefaultShapeColor = "C8DCFF"

// Canvas size the content is authored against, in inches.
const (
	CanvasWidth  = 16.0
	CanvasHeight = 9.0
)

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// =============================================================================
// CONTENT TYPES
// =============================================================================

// Deck is the whole document.
type Deck struct {
	Title  string  `yaml:"title"`
	Accent string  `yaml:"accent"`
	Slides []Slide `yaml:"slides"`
}

// Slide is one slide.
type Slide struct {
	Title  string   `yaml:"title"`
	Body   []string `yaml:"body"`
	Notes  []string `yaml:"notes"`
	Shapes []Shape  `yaml:"shapes"`
}

// Shape is a decorative shape. Coordinates are canvas inches.
type Shape struct {
	Kind  string  `yaml:"kind"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	W     float64 `yaml:"w"`
	H     float64 `yaml:"h"`
	Color string  `yaml:"color,omitempty"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load decodes and validates deck content.
func Load(r io.Reader) (*Deck, error) {
	var d Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Default returns the built-in deck.
func Default() (*Deck, error) {
	d, err := Load(bytes.NewReader(defaultContent))
	if err != nil {
		return nil, fmt.Errorf("default deck: %w", err)
	}
	return d, nil
}

// Validate checks structure: at least one slide, titled slides, known shape
// kinds with positive size on the canvas, valid colors.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("%w: no slides", ErrInvalidDeck)
	}
	if d.Accent != "" && !hexColor.MatchString(d.Accent) {
		return fmt.Errorf("%w: accent %q is not RRGGBB", ErrInvalidDeck, d.Accent)
	}
	for i, s := range d.Slides {
		if s.Title == "" {
			return fmt.Errorf("%w: slide %d has no title", ErrInvalidDeck, i+1)
		}
		for j, sh := range s.Shapes {
			switch sh.Kind {
			case ShapeCircle, ShapeArrow, ShapeRectangle:
			default:
				return fmt.Errorf("%w: slide %d shape %d: unknown kind %q", ErrInvalidDeck, i+1, j+1, sh.Kind)
			}
			if sh.W <= 0 || sh.H <= 0 {
				return fmt.Errorf("%w: slide %d shape %d: size must be positive", ErrInvalidDeck, i+1, j+1)
			}
			if sh.X < 0 || sh.Y < 0 || sh.X+sh.W > CanvasWidth || sh.Y+sh.H > CanvasHeight {
				return fmt.Errorf("%w: slide %d shape %d: outside the %gx%g canvas", ErrInvalidDeck, i+1, j+1, CanvasWidth, CanvasHeight)
			}
			if sh.Color != "" && !hexColor.MatchString(sh.Color) {
				return fmt.Errorf("%w: slide %d shape %d: color %q is not RRGGBB", ErrInvalidDeck, i+1, j+1, sh.Color)
			}
		}
	}
	return nil
}

func (d *Deck) accent() string {
	if d.Accent == "" {
		return "192A56"
	}
	return d.Accent
}
