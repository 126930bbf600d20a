package prep

import (
	"testing"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/stretchr/testify/require"
)

func TestBookletOrderPadsToMultipleOfFour(t *testing.T) {
	order := BookletOrder(6)
	require.Len(t, order, 8)
	// first sheet: last, first, second, second-to-last; the padding slots
	// (original indices 6 and 7, beyond the 6 real pages) read as blanks.
	require.Equal(t, []int{-1, 0, 1, -1}, order[:4])
	require.Equal(t, []int{5, 2, 3, 4}, order[4:])
	for _, p := range order {
		require.Less(t, p, 6)
	}
}

func TestBookletOrderExactMultipleOfFour(t *testing.T) {
	order := BookletOrder(4)
	require.Equal(t, []int{3, 0, 1, 2}, order)
}

func TestGridCellsPortraitRowMajorTopLeft(t *testing.T) {
	box := model.Rect{X1: 0, Y1: 0, X2: 200, Y2: 100}
	rects, err := GridCells(box, 4, model.OrientationPortrait)
	require.NoError(t, err)
	require.Len(t, rects, 4)
	// top-left cell first: upper half, left half
	require.Equal(t, model.Rect{X1: 0, Y1: 50, X2: 100, Y2: 100}, rects[0])
	// row-major: next is top-right
	require.Equal(t, model.Rect{X1: 100, Y1: 50, X2: 200, Y2: 100}, rects[1])
}

func TestGridCellsLandscapeColumnMajorBottomLeft(t *testing.T) {
	box := model.Rect{X1: 0, Y1: 0, X2: 200, Y2: 100}
	rects, err := GridCells(box, 4, model.OrientationLandscape)
	require.NoError(t, err)
	require.Len(t, rects, 4)
	// column-major from bottom-left: first cell is bottom-left
	require.Equal(t, model.Rect{X1: 0, Y1: 0, X2: 100, Y2: 50}, rects[0])
}

func TestAssignCellsLeavesTrailingCellsBlank(t *testing.T) {
	rects := []model.Rect{{}, {}, {}, {}}
	grids := AssignCells(rects, []int{0, 1, 2})
	require.Len(t, grids, 1)
	require.Equal(t, 0, grids[0].Cells[0].InputPage)
	require.Equal(t, 1, grids[0].Cells[1].InputPage)
	require.Equal(t, 2, grids[0].Cells[2].InputPage)
	require.Equal(t, -1, grids[0].Cells[3].InputPage)
}

func TestPlanImpositionBookletForcesTwoUp(t *testing.T) {
	box := model.Rect{X1: 0, Y1: 0, X2: 200, Y2: 400}
	opts := &model.PrintOptions{Imposition: model.ImpositionBooklet, OrientationRequested: model.OrientationPortrait}
	grids, err := PlanImposition(box, 4, opts)
	require.NoError(t, err)
	require.NotEmpty(t, grids)
	for _, g := range grids {
		require.Len(t, g.Cells, 2)
	}
}
