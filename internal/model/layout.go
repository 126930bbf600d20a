package model

// Rect is an axis-aligned rectangle in PDF points, lower-left origin.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Width returns the rectangle's width in points.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height returns the rectangle's height in points.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// MaxCells is the largest layout grid spec.md supports (number-up=16).
const MaxCells = 16

// LayoutGrid holds up to MaxCells destination rectangles computed from the
// media crop box, number-up, imposition, and orientation, plus the input
// page each cell should draw.
type LayoutGrid struct {
	Cells []LayoutCell
}

// LayoutCell is one rectangle within a LayoutGrid and the input page
// reference (by index into the flattened input-page list) it should
// render; InputPage < 0 means the cell is blank (padding).
type LayoutCell struct {
	Rect      Rect
	InputPage int
}

// CellResource tracks a resource-name remap applied to one cell's content
// stream during page composition, so that collisions between cells'
// /ColorSpace, /Font, etc. resource dictionaries are resolved by renaming.
type CellResource struct {
	Category string // e.g. "Font", "XObject"
	Original string
	Renamed  string
}

// PreparedPage is one output impression assembled by PREP: the PDF page
// handle it was written to, the cells composed onto it, and the resource
// remap table used while rewriting each cell's content stream.
type PreparedPage struct {
	OutputPageIndex int // 0-based index into the intermediate PDF
	Cells           []LayoutCell
	ResourceRemap   []CellResource
}
