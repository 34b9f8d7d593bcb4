// Package pdf executes composer instructions with fpdf.
package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/artem13815/resumepay/pkg/composer"
)

const (
	family      = "Helvetica"
	pageMargin  = 15.0
	ptToMM      = 25.4 / 72
	lineSpacing = 1.35
)

// Meta is written into the document info dictionary.
type Meta struct {
	Title  string
	Author string
}

type options struct {
	compress bool
}

type Option func(*options)

// WithCompression toggles stream compression. Tests turn it off to grep the output.
func WithCompression(on bool) Option { return func(o *options) { o.compress = on } }

// Render lays out instrs on A4 pages and writes the PDF to w.
// Page breaks are automatic; leading repeated fills are painted on every page.
func Render(w io.Writer, instrs []composer.Instruction, meta Meta, opts ...Option) error {
	o := options{compress: true}
	for _, opt := range opts {
		opt(&o)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(o.compress)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetCreator("resumepay", true)
	if meta.Title != "" {
		doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		doc.SetAuthor(meta.Author, true)
	}
	// core fonts are cp1252; accents in Portuguese text need translating
	tr := doc.UnicodeTranslatorFromDescriptor("")

	var background []composer.FillRegion
	rest := instrs
	for len(rest) > 0 {
		f, ok := rest[0].(composer.FillRegion)
		if !ok || !f.Repeat {
			break
		}
		background = append(background, f)
		rest = rest[1:]
	}
	doc.SetHeaderFunc(func() {
		for _, f := range background {
			fill(doc, f)
		}
	})
	doc.AddPage()
	doc.SetFont(family, "", 10)
	lineH := lineHeight(10)

	for _, in := range rest {
		switch v := in.(type) {
		case composer.SetStyle:
			doc.SetFont(family, fontStyle(v.Weight), v.Size)
			doc.SetTextColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
			lineH = lineHeight(v.Size)
		case composer.WriteText:
			text := tr(v.Text)
			if v.Wrapped || !fitsLine(doc, text) {
				doc.MultiCell(0, lineH, text, "", alignStr(v.Align), false)
			} else {
				doc.CellFormat(0, lineH, text, "", 1, alignStr(v.Align), false, 0, "")
			}
		case composer.AdvanceVertical:
			doc.Ln(v.Amount)
		case composer.DrawRule:
			left, _, right, _ := doc.GetMargins()
			pageW, _ := doc.GetPageSize()
			y := doc.GetY()
			doc.SetDrawColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
			doc.SetLineWidth(v.Thickness)
			doc.Line(left, y, pageW-right, y)
		case composer.FillRegion:
			if v.Repeat {
				background = append(background, v)
			}
			fill(doc, v)
		default:
			return fmt.Errorf("pdf: unsupported instruction %T", in)
		}
		if doc.Err() {
			return fmt.Errorf("pdf: %w", doc.Error())
		}
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	return nil
}

// fitsLine reports whether text in the current font fits between the margins.
func fitsLine(doc *fpdf.Fpdf, text string) bool {
	left, _, right, _ := doc.GetMargins()
	pageW, _ := doc.GetPageSize()
	return doc.GetStringWidth(text) <= pageW-left-right
}

func fill(doc *fpdf.Fpdf, f composer.FillRegion) {
	doc.SetFillColor(int(f.Color.R), int(f.Color.G), int(f.Color.B))
	doc.Rect(f.Rect.X, f.Rect.Y, f.Rect.W, f.Rect.H, "F")
}

func lineHeight(sizePt float64) float64 {
	return sizePt * ptToMM * lineSpacing
}

func fontStyle(w composer.Weight) string {
	if w == composer.WeightBold {
		return "B"
	}
	return ""
}

func alignStr(a composer.Align) string {
	switch a {
	case composer.AlignCenter:
		return "C"
	case composer.AlignRight:
		return "R"
	default:
		return "L"
	}
}
