package raster

import "github.com/printworks/ipptransform/internal/model"

// numColorsTable maps colorspace to channel count, used to derive
// cupsNumColors when the header omits it on read.
var numColorsTable = map[model.ColorSpace]int{
	model.ColorSpaceW:        1,
	model.ColorSpaceSGray:    1,
	model.ColorSpaceK:        1,
	model.ColorSpaceWHITE:    1,
	model.ColorSpaceGOLD:     1,
	model.ColorSpaceSILVER:   1,
	model.ColorSpaceRGB:      3,
	model.ColorSpaceSRGB:     3,
	model.ColorSpaceAdobeRGB: 3,
	model.ColorSpaceCIELab:   3,
	model.ColorSpaceCIEXYZ:   3,
	model.ColorSpaceCMY:      3,
	model.ColorSpaceYMC:      3,
	model.ColorSpaceRGBA:     4,
	model.ColorSpaceRGBW:     4,
	model.ColorSpaceCMYK:     4,
	model.ColorSpaceYMCK:     4,
	model.ColorSpaceKCMY:     4,
	model.ColorSpaceGMCK:     4,
	model.ColorSpaceGMCS:     4,
	model.ColorSpaceKCMYcm:   6,
}

func numColorsFor(cs model.ColorSpace) int {
	return numColorsTable[cs]
}

// bytesPerPixel computes the RSC's internal pixel stride, per spec.md
// §4.1: ceil(bpp/8) for chunky pixel order, ceil(bpc/8) for banded/planar.
func bytesPerPixel(h *model.RasterHeader) int {
	switch h.CUPSColorOrder {
	case model.ColorOrderBanded, model.ColorOrderPlanar:
		return int(h.CUPSBitsPerColor+7) / 8
	default:
		return int(h.CUPSBitsPerPixel+7) / 8
	}
}
