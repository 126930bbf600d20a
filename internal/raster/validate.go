package raster

import (
	"fmt"

	"github.com/printworks/ipptransform/internal/model"
)

// Validate enforces the read-path acceptance rules from spec.md §4.1.
func Validate(h *model.RasterHeader) error {
	if h.CUPSBitsPerPixel == 0 || h.CUPSBitsPerPixel > 240 {
		return fmt.Errorf("%w: cupsBitsPerPixel=%d out of range", errMalformed, h.CUPSBitsPerPixel)
	}
	if h.CUPSBitsPerColor == 0 || h.CUPSBitsPerColor > 16 {
		return fmt.Errorf("%w: cupsBitsPerColor=%d out of range", errMalformed, h.CUPSBitsPerColor)
	}
	if h.CUPSBytesPerLine == 0 || h.CUPSBytesPerLine > (1<<31)-1 {
		return fmt.Errorf("%w: cupsBytesPerLine=%d out of range", errMalformed, h.CUPSBytesPerLine)
	}
	if h.CUPSHeight == 0 {
		return fmt.Errorf("%w: cupsHeight is zero", errMalformed)
	}
	bpp := bytesPerPixel(h)
	if bpp == 0 || int(h.CUPSBytesPerLine)%bpp != 0 {
		return fmt.Errorf("%w: cupsBytesPerLine %d not a multiple of pixel stride %d", errMalformed, h.CUPSBytesPerLine, bpp)
	}
	return nil
}

// ExpectedBytesPerLine computes cupsBytesPerLine = ceil(width*bpp/8), per
// invariant 7 in spec.md §8.
func ExpectedBytesPerLine(width, bitsPerPixel uint32) uint32 {
	return (width*bitsPerPixel + 7) / 8
}
