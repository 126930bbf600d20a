package prep

import (
	"testing"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/stretchr/testify/require"
)

func TestResolveRotationExplicitWins(t *testing.T) {
	require.Equal(t, 90, resolveRotation("90", 100, 200, 612, 792))
}

func TestResolveRotationAutoRotatesOnAspectMismatch(t *testing.T) {
	// landscape image, portrait crop box
	require.Equal(t, 90, resolveRotation("none", 200, 100, 612, 792))
}

func TestResolveRotationAutoLeavesMatchingAspect(t *testing.T) {
	require.Equal(t, 0, resolveRotation("none", 100, 200, 612, 792))
}

func TestResolveScaleFitUsesSmallerRatio(t *testing.T) {
	// image 100x200, crop 200x300: fit = min(200/100, 300/200) = min(2, 1.5) = 1.5
	got := resolveScale(model.ScalingFit, 100, 200, 200, 300, false)
	require.InDelta(t, 1.5, got, 1e-9)
}

func TestResolveScaleFillUsesLargerRatio(t *testing.T) {
	got := resolveScale(model.ScalingFill, 100, 200, 200, 300, false)
	require.InDelta(t, 2.0, got, 1e-9)
}

func TestResolveScaleAutoFitCapsAtOne(t *testing.T) {
	// image smaller than crop box: fit > 1, auto-fit caps to 1
	got := resolveScale(model.ScalingAutoFit, 50, 50, 200, 300, false)
	require.InDelta(t, 1.0, got, 1e-9)
}

func TestResolveScaleAutoNoMarginsFitsWhenExceeds(t *testing.T) {
	got := resolveScale(model.ScalingAuto, 400, 400, 200, 300, false)
	require.InDelta(t, 0.5, got, 1e-9)
}

func TestResolveScaleAutoWithMarginsFillsWhenExceeds(t *testing.T) {
	got := resolveScale(model.ScalingAuto, 400, 800, 200, 300, true)
	want := 300.0 / 800.0
	if f := 200.0 / 400.0; f > want {
		want = f
	}
	require.InDelta(t, want, got, 1e-9)
}

func TestResolveScaleAutoReturnsOneWhenImageFitsAlready(t *testing.T) {
	got := resolveScale(model.ScalingAuto, 50, 50, 200, 300, true)
	require.InDelta(t, 1.0, got, 1e-9)
}

func TestResolveScaleNoneIsAlwaysOne(t *testing.T) {
	require.InDelta(t, 1.0, resolveScale(model.ScalingNone, 400, 400, 200, 300, true), 1e-9)
}

func TestResolvePositionCenter(t *testing.T) {
	x, y := resolvePosition(model.ImagePositionCenter, model.ImagePositionCenter, 200, 300, 100, 100)
	require.InDelta(t, 50, x, 1e-9)
	require.InDelta(t, 100, y, 1e-9)
}

func TestResolvePositionTopRight(t *testing.T) {
	x, y := resolvePosition(model.ImagePositionTopRight, model.ImagePositionTopRight, 200, 300, 100, 100)
	require.InDelta(t, 100, x, 1e-9)
	require.InDelta(t, 0, y, 1e-9)
}

func TestResolvePositionDefaultIsBottomLeft(t *testing.T) {
	x, y := resolvePosition("", "", 200, 300, 100, 100)
	require.InDelta(t, 0, x, 1e-9)
	require.InDelta(t, 200, y, 1e-9)
}
