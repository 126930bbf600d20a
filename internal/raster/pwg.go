package raster

import "github.com/printworks/ipptransform/internal/model"

// normalizePWG pre-zeroes every field not required by PWG Raster and
// re-derives cupsInteger[3..6] (the device-pixel image box) from
// cupsImagingBBox * HWResolution / 72, forcing cupsInteger[7] to
// 0xffffff, per spec.md §4.1.
func normalizePWG(h *model.RasterHeader) {
	zeroed := model.RasterHeader{
		MediaColor:       h.MediaColor,
		MediaType:        h.MediaType,
		OutputType:       "",
		Duplex:           h.Duplex,
		HWResolution:     h.HWResolution,
		ImagingBoundingBox: h.ImagingBoundingBox,
		Margins:          h.Margins,
		MediaPosition:    h.MediaPosition,
		MediaWeight:      h.MediaWeight,
		NumCopies:        h.NumCopies,
		Orientation:      h.Orientation,
		PageSize:         h.PageSize,
		Tumble:           h.Tumble,

		CUPSWidth:        h.CUPSWidth,
		CUPSHeight:       h.CUPSHeight,
		CUPSBitsPerColor: h.CUPSBitsPerColor,
		CUPSBitsPerPixel: h.CUPSBitsPerPixel,
		CUPSBytesPerLine: h.CUPSBytesPerLine,
		CUPSColorOrder:   h.CUPSColorOrder,
		CUPSColorSpace:   h.CUPSColorSpace,
		CUPSCompression:  model.CompressionRLE,

		CUPSNumColors:       h.CUPSNumColors,
		CUPSPageSize:        h.CUPSPageSize,
		CUPSImagingBBox:     h.CUPSImagingBBox,
		CUPSRenderingIntent: h.CUPSRenderingIntent,
		CUPSPageSizeName:    h.CUPSPageSizeName,
	}
	zeroed.MediaClass = "PwgRaster"
	copy(zeroed.CUPSInteger[:], h.CUPSInteger[:])

	left := uint32(h.CUPSImagingBBox[0] * float32(h.HWResolution[0]) / 72)
	top := uint32(h.CUPSImagingBBox[1] * float32(h.HWResolution[1]) / 72)
	right := uint32(h.CUPSImagingBBox[2] * float32(h.HWResolution[0]) / 72)
	bottom := uint32(h.CUPSImagingBBox[3] * float32(h.HWResolution[1]) / 72)
	zeroed.CUPSInteger[model.IntImageBoxLeft] = left
	zeroed.CUPSInteger[model.IntImageBoxTop] = top
	zeroed.CUPSInteger[model.IntImageBoxRight] = right
	zeroed.CUPSInteger[model.IntImageBoxBottom] = bottom
	zeroed.CUPSInteger[model.IntAlternatePrimary] = model.AlternatePrimaryPWG

	*h = zeroed
}
