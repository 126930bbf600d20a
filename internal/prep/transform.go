package prep

import "github.com/printworks/ipptransform/internal/model"

// AffineMatrix is a PDF content-stream `cm` matrix: [a b c d e f], mapping
// (x,y) to (a*x+c*y+e, b*x+d*y+f).
type AffineMatrix [6]float64

var identity = AffineMatrix{1, 0, 0, 1, 0, 0}

// SheetBackMatrix returns the affine transform applied to an even
// (back-side) output page's content stream, per spec §4.2's table. W and H
// are the output page's width and height in points. sides=one-sided never
// calls this; callers should skip the transform entirely in that case.
func SheetBackMatrix(back model.SheetBack, sides model.Sides, w, h float64) AffineMatrix {
	switch sides {
	case model.SidesTwoSidedShortEdge:
		switch back {
		case model.SheetBackFlipped:
			return AffineMatrix{-1, 0, 0, 1, w, 0}
		case model.SheetBackManualTumble:
			return AffineMatrix{-1, 0, 0, -1, w, h}
		default: // normal, rotated
			return identity
		}
	case model.SidesTwoSidedLongEdge:
		switch back {
		case model.SheetBackFlipped:
			return AffineMatrix{1, 0, 0, -1, 0, h}
		case model.SheetBackRotated:
			return AffineMatrix{-1, 0, 0, -1, w, h}
		default: // normal, manual-tumble
			return identity
		}
	default: // one-sided
		return identity
	}
}

// IsIdentity reports whether m has no effect, so callers can skip wrapping
// a content stream in an unnecessary q/cm/Q.
func (m AffineMatrix) IsIdentity() bool { return m == identity }
