package deck

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

const (
	emuPerInch = 914400

	slideWidth = 10.0 // inches, 16:9
	scale      = slideWidth / CanvasWidth

	fontTitle = 32
	fontBody  = 18
	fontGlyph = 20
)

var glyphs = map[string]string{
	ShapeCircle:    "●",
	ShapeArrow:     "➜",
	ShapeRectangle: "",
}

func emu(canvasInches float64) int64 {
	return int64(canvasInches * scale * emuPerInch)
}

func argb(rgb string) *ppt.Color {
	return ppt.NewColor("FF" + strings.ToUpper(rgb))
}

// Build renders the deck as PPTX, one slide per entry.
func Build(d *Deck) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = d.Title

	accent := argb(d.accent())
	for i, s := range d.Slides {
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		addSlide(slide, s, accent)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create pptx writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pptx: %w", err)
	}
	return buf.Bytes(), nil
}

func addSlide(slide *ppt.Slide, s Slide, accent *ppt.Color) {
	title := slide.CreateRichTextShape()
	title.SetOffsetX(emu(1)).SetOffsetY(emu(0.5))
	title.SetWidth(emu(14)).SetHeight(emu(1.5))
	tr := title.CreateTextRun(s.Title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(accent)
	alignCenter(title.GetActiveParagraph())

	if len(s.Body) > 0 {
		body := slide.CreateRichTextShape()
		body.SetOffsetX(emu(1)).SetOffsetY(emu(2.5))
		body.SetWidth(emu(14)).SetHeight(emu(5))
		for i, line := range s.Body {
			if i > 0 {
				// blank paragraph between lines
				body.CreateParagraph()
				body.CreateTextRun(" ").GetFont().SetSize(fontBody / 2)
				body.CreateParagraph()
			}
			run := body.CreateTextRun(line)
			run.GetFont().SetSize(fontBody).SetColor(accent)
			alignCenter(body.GetActiveParagraph())
		}
	}

	for _, sh := range s.Shapes {
		addShape(slide, sh, accent)
	}
}

// addShape draws a filled box at the scaled position with the kind's glyph
// centred in it.
func addShape(slide *ppt.Slide, sh Shape, accent *ppt.Color) {
	color := sh.Color
	if color == "" {
		color = DefaultShapeColor
	}

	box := slide.CreateRichTextShape()
	box.SetOffsetX(emu(sh.X)).SetOffsetY(emu(sh.Y))
	box.SetWidth(emu(sh.W)).SetHeight(emu(sh.H))
	box.SetFill(ppt.NewFill().SetSolid(argb(color)))

	if g := glyphs[sh.Kind]; g != "" {
		run := box.CreateTextRun(g)
		run.GetFont().SetSize(fontGlyph).SetColor(accent)
		alignCenter(box.GetActiveParagraph())
	}
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}
