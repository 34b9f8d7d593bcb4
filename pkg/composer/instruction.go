package composer

import (
	"fmt"

	"github.com/artem13815/resumepay/pkg/resume"
)

// Instruction is one step of a document layout. The set is closed: SetStyle,
// WriteText, AdvanceVertical, DrawRule and FillRegion.
type Instruction interface {
	instruction()
}

type Weight int

const (
	WeightRegular Weight = iota
	WeightBold
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// RGB is a color with 8-bit channels.
type RGB struct{ R, G, B uint8 }

// Rect is an area on the page in millimetres from the top-left corner.
type Rect struct{ X, Y, W, H float64 }

// SetStyle changes the font for subsequent text. Size is in points.
type SetStyle struct {
	Weight Weight
	Size   float64
	Color  RGB
}

// WriteText writes one line, or a wrapped paragraph when Wrapped is set,
// and moves the cursor below it.
type WriteText struct {
	Text    string
	Align   Align
	Wrapped bool
}

// AdvanceVertical moves the cursor down by Amount millimetres.
type AdvanceVertical struct {
	Amount float64
}

// DrawRule draws a horizontal line across the content width at the cursor.
type DrawRule struct {
	Color     RGB
	Thickness float64
}

// FillRegion paints a solid rectangle. Repeat asks the backend to paint it
// on every page, not only the current one.
type FillRegion struct {
	Rect   Rect
	Color  RGB
	Repeat bool
}

func (SetStyle) instruction()        {}
func (WriteText) instruction()       {}
func (AdvanceVertical) instruction() {}
func (DrawRule) instruction()        {}
func (FillRegion) instruction()      {}

// ComposerError is returned for a template outside the known set.
type ComposerError struct {
	Template resume.Template
}

func (e *ComposerError) Error() string {
	return fmt.Sprintf("composer: unsupported template %q", string(e.Template))
}
