package xform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/model"
)

func TestPreferenceOrderColorHigh(t *testing.T) {
	got := preferenceOrder(model.ColorModeColor, model.QualityHigh)
	assert.Equal(t, []string{"adobe-rgb_16", "adobe-rgb_8", "srgb_8", "cmyk_8"}, got)
}

func TestPreferenceOrderColorNormal(t *testing.T) {
	got := preferenceOrder(model.ColorModeColor, model.QualityNormal)
	assert.Equal(t, []string{"srgb_8", "cmyk_8"}, got)
}

func TestPreferenceOrderMonochromeDraft(t *testing.T) {
	got := preferenceOrder(model.ColorModeMonochrome, model.QualityDraft)
	assert.Equal(t, []string{"black_1", "sgray_1"}, got)
}

func TestPreferenceOrderMonochromeNormal(t *testing.T) {
	got := preferenceOrder(model.ColorModeMonochrome, model.QualityNormal)
	assert.Equal(t, []string{"black_8", "sgray_8"}, got)
}

func TestPreferenceOrderBiLevelForcesDraftMonochromeRegardlessOfQuality(t *testing.T) {
	got := preferenceOrder(model.ColorModeBiLevel, model.QualityHigh)
	assert.Equal(t, []string{"black_1", "sgray_1"}, got)
}

func TestResolveColorPicksFirstSupportedMatch(t *testing.T) {
	got := ResolveColor(model.ColorModeColor, model.QualityHigh, "srgb_8,cmyk_8")
	assert.Equal(t, "srgb_8", got.Name)
}

func TestResolveColorFallsBackWhenNothingSupportedMatches(t *testing.T) {
	got := ResolveColor(model.ColorModeMonochrome, model.QualityDraft, "srgb_8")
	assert.Equal(t, "black_1", got.Name, "falls back to first entry of its own preference order")
}

func TestResolveColorDefaultsToSRGBWhenNoneResolvable(t *testing.T) {
	got := ResolveColor(model.ColorMode("bogus"), model.QualityNormal, "")
	assert.Equal(t, "srgb_8", got.Name)
}

func TestBuildBayerIsSquareAndCoversFullByteRange(t *testing.T) {
	m := buildBayer(64)
	require.Len(t, m, 64)
	var min, max byte = 255, 0
	for _, row := range m {
		require.Len(t, row, 64)
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	assert.Less(t, int(min), 16)
	assert.Greater(t, int(max), 240)
}

func TestThresholdWrapsAtSixtyFour(t *testing.T) {
	assert.Equal(t, threshold(0, 0), threshold(64, 64))
	assert.Equal(t, threshold(10, 5), threshold(74, 69))
}

func TestDither1BitPacksMSBFirst(t *testing.T) {
	gray := []byte{0, 255, 0, 255, 0, 255, 0, 255}
	out := Dither1Bit(gray, 0, true)
	require.Len(t, out, 1)
	assert.Equal(t, byte(0xaa), out[0])
}

func TestDither1BitUniformThresholdIsOneTwentySeven(t *testing.T) {
	gray := make([]byte, 8)
	for i := range gray {
		gray[i] = 127
	}
	out := Dither1Bit(gray, 0, true)
	assert.Equal(t, byte(0xff), out[0], "p <= T is ink (bit set) at the uniform threshold")
}

func TestDither1BitWidthRoundsUpToByteBoundary(t *testing.T) {
	gray := make([]byte, 5)
	out := Dither1Bit(gray, 0, true)
	assert.Len(t, out, 1)
}
