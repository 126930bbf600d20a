package xform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/printworks/ipptransform/internal/model"
)

func TestResolveResolutionDefaultsTo300DPI(t *testing.T) {
	x, y := resolveResolution(&model.PrintOptions{})
	assert.Equal(t, uint32(300), x)
	assert.Equal(t, uint32(300), y)
}

func TestResolveResolutionUsesRequestedValues(t *testing.T) {
	x, y := resolveResolution(&model.PrintOptions{ResolutionX: 600, ResolutionY: 1200})
	assert.Equal(t, uint32(600), x)
	assert.Equal(t, uint32(1200), y)
}

func TestResolveResolutionSquaresWhenYUnset(t *testing.T) {
	x, y := resolveResolution(&model.PrintOptions{ResolutionX: 600})
	assert.Equal(t, uint32(600), x)
	assert.Equal(t, uint32(600), y)
}

func TestHundMMToPointsConvertsLetterWidth(t *testing.T) {
	// na_letter is 21590 hundredths-mm wide, 612pt at 72dpi.
	assert.Equal(t, uint32(612), hundMMToPoints(21590))
}

func TestChannelsForColorSpaces(t *testing.T) {
	assert.Equal(t, 1, channelsFor(model.ColorSpaceK))
	assert.Equal(t, 1, channelsFor(model.ColorSpaceSGray))
	assert.Equal(t, 3, channelsFor(model.ColorSpaceSRGB))
	assert.Equal(t, 4, channelsFor(model.ColorSpaceCMYK))
}

func TestQualityCodeMapping(t *testing.T) {
	assert.Equal(t, uint32(3), qualityCode(model.QualityDraft))
	assert.Equal(t, uint32(4), qualityCode(model.QualityNormal))
	assert.Equal(t, uint32(5), qualityCode(model.QualityHigh))
}

func TestRenderRowDithersTo1BitWhenColorSpecIsOneBit(t *testing.T) {
	page := &RenderedPage{Width: 8, Height: 1, Gray: true, Pix: []byte{0, 255, 0, 255, 0, 255, 0, 255}}
	color := ColorSpec{Name: "black_1", ColorSpace: model.ColorSpaceK, BitsPerColor: 1}
	row := renderRow(page, 0, color, 1, true)
	assert.Equal(t, []byte{0xaa}, row)
}

func TestRenderRowPassesThroughRGBAtEightBit(t *testing.T) {
	page := &RenderedPage{Width: 1, Height: 1, Pix: []byte{10, 20, 30}}
	color := ColorSpec{Name: "srgb_8", ColorSpace: model.ColorSpaceSRGB, BitsPerColor: 8}
	row := renderRow(page, 0, color, 3, false)
	assert.Equal(t, []byte{10, 20, 30}, row)
}

func TestRenderRowWidensToSixteenBitBySampleDuplication(t *testing.T) {
	page := &RenderedPage{Width: 1, Height: 1, Gray: true, Pix: []byte{42}}
	color := ColorSpec{Name: "sgray_16", ColorSpace: model.ColorSpaceSGray, BitsPerColor: 16}
	row := renderRow(page, 0, color, 1, false)
	assert.Equal(t, []byte{42, 42}, row)
}
