package prep

import (
	"testing"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/stretchr/testify/require"
)

func TestSheetBackMatrixOneSidedIsAlwaysIdentity(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackFlipped, model.SidesOneSided, 612, 792)
	require.True(t, m.IsIdentity())
}

func TestSheetBackMatrixShortEdgeFlipped(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackFlipped, model.SidesTwoSidedShortEdge, 612, 792)
	require.Equal(t, AffineMatrix{-1, 0, 0, 1, 612, 0}, m)
}

func TestSheetBackMatrixShortEdgeNormalIsIdentity(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackNormal, model.SidesTwoSidedShortEdge, 612, 792)
	require.True(t, m.IsIdentity())
}

func TestSheetBackMatrixLongEdgeFlipped(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackFlipped, model.SidesTwoSidedLongEdge, 612, 792)
	require.Equal(t, AffineMatrix{1, 0, 0, -1, 0, 792}, m)
}

func TestSheetBackMatrixLongEdgeRotated(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackRotated, model.SidesTwoSidedLongEdge, 612, 792)
	require.Equal(t, AffineMatrix{-1, 0, 0, -1, 612, 792}, m)
}

func TestSheetBackMatrixShortEdgeManualTumble(t *testing.T) {
	m := SheetBackMatrix(model.SheetBackManualTumble, model.SidesTwoSidedShortEdge, 612, 792)
	require.Equal(t, AffineMatrix{-1, 0, 0, -1, 612, 792}, m)
}
