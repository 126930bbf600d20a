package prep

import (
	"fmt"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/options"
)

// BookletOrder returns the 0-based input-page index sequence a booklet
// imposition reads cells from, padding the logical page count to a
// multiple of 4 with -1 ("blank") entries, per spec §4.2. Each sheet takes
// the four pages hi, lo, lo+1, hi-1 (pages N,1,2,N-1 then N-2,3,4,N-3, …)
// so that folding the printed sheets yields correct reading order.
func BookletOrder(pageCount int) []int {
	padded := pageCount
	if r := padded % 4; r != 0 {
		padded += 4 - r
	}
	order := make([]int, 0, padded)
	lo, hi := 0, padded-1
	for lo < hi {
		order = append(order, hi, lo, lo+1, hi-1)
		lo += 2
		hi -= 2
	}
	for i, p := range order {
		if p >= pageCount {
			order[i] = -1
		}
	}
	return order
}

// GridCells computes the destination rectangles for a number-up grid
// within cropBox, ordered per orientationRequested, per spec §4.2's
// ordering table: portrait is row-major from the top-left, landscape is
// column-major from the bottom-left, and the "reverse-*" variants walk
// the same cells in the opposite direction.
func GridCells(cropBox model.Rect, numberUp int, orientation model.Orientation) ([]model.Rect, error) {
	cols, rows, err := options.NumberUpGrid(numberUp)
	if err != nil {
		return nil, err
	}
	cellW := cropBox.Width() / float64(cols)
	cellH := cropBox.Height() / float64(rows)

	type rc struct{ row, col int }
	var order []rc
	switch orientation {
	case model.OrientationLandscape:
		for col := 0; col < cols; col++ {
			for row := rows - 1; row >= 0; row-- {
				order = append(order, rc{row, col})
			}
		}
	case model.OrientationReverseLandscape:
		for col := cols - 1; col >= 0; col-- {
			for row := 0; row < rows; row++ {
				order = append(order, rc{row, col})
			}
		}
	case model.OrientationReversePortrait:
		for row := rows - 1; row >= 0; row-- {
			for col := cols - 1; col >= 0; col-- {
				order = append(order, rc{row, col})
			}
		}
	default: // portrait: row-major, top-left origin
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				order = append(order, rc{row, col})
			}
		}
	}

	rects := make([]model.Rect, len(order))
	for i, c := range order {
		// row 0 is the top row; PDF space has a lower-left origin, so row
		// index counts down from the top of cropBox.
		y2 := cropBox.Y2 - float64(c.row)*cellH
		y1 := y2 - cellH
		x1 := cropBox.X1 + float64(c.col)*cellW
		x2 := x1 + cellW
		rects[i] = model.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
	}
	return rects, nil
}

// AssignCells maps each grid rectangle to the next selected input page,
// leaving trailing cells blank (InputPage -1) when fewer pages remain
// than cells, and grouping cells into pages of len(rects) each.
func AssignCells(rects []model.Rect, pageOrder []int) []model.LayoutGrid {
	if len(rects) == 0 {
		return nil
	}
	var grids []model.LayoutGrid
	for i := 0; i < len(pageOrder); i += len(rects) {
		var g model.LayoutGrid
		for j, r := range rects {
			idx := -1
			if i+j < len(pageOrder) {
				idx = pageOrder[i+j]
			}
			g.Cells = append(g.Cells, model.LayoutCell{Rect: r, InputPage: idx})
		}
		grids = append(grids, g)
	}
	return grids
}

// sequentialOrder returns 0..pageCount-1, the identity ordering used by
// plain (non-booklet) N-up imposition.
func sequentialOrder(pageCount int) []int {
	order := make([]int, pageCount)
	for i := range order {
		order[i] = i
	}
	return order
}

// PlanImposition is the entry point used by the prep pipeline: it decides
// between booklet and plain N-up ordering and returns the page grids to
// render.
func PlanImposition(cropBox model.Rect, pageCount int, opts *model.PrintOptions) ([]model.LayoutGrid, error) {
	numberUp := opts.NumberUp
	if numberUp == 0 {
		numberUp = 1
	}
	if opts.Imposition == model.ImpositionBooklet {
		numberUp = 2
	}
	rects, err := GridCells(cropBox, numberUp, opts.OrientationRequested)
	if err != nil {
		return nil, fmt.Errorf("imposition: %w", err)
	}
	var order []int
	if opts.Imposition == model.ImpositionBooklet {
		order = BookletOrder(pageCount)
	} else {
		order = sequentialOrder(pageCount)
	}
	return AssignCells(rects, order), nil
}
