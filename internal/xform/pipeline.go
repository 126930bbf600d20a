package xform

import (
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/config"
	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/xerr"
)

// Run drives the Transform Pipeline end to end: it opens pdfPath for
// page-by-page rasterization, resolves the output driver for outType,
// and pushes every selected page through start_page/write_line/end_page,
// per spec.md §4.3. PDF passthrough is a one-shot copy and skips
// rasterization entirely.
func Run(ch *diag.Channel, cfg *config.ClientConfig, pdfPath string, outType model.MimeType, opts *model.PrintOptions, w io.Writer) error {
	driver, err := newDriver(outType, opts, cfg, pdfPath)
	if err != nil {
		return err
	}

	if outType == model.MimePDF {
		return driver.StartJob(w)
	}

	dpiX, dpiY := resolveResolution(opts)
	src, err := OpenPageSource(pdfPath, float64(dpiX))
	if err != nil {
		return fmt.Errorf("%w: open rendered pages: %v", xerr.Internal, err)
	}
	defer src.Close()

	color := ResolveColor(opts.PrintColorMode, opts.Quality, cfg.PWGRasterDocumentType)
	channels := channelsFor(color.ColorSpace)
	uniformDither := opts.PrintColorMode == model.ColorModeBiLevel

	if err := driver.StartJob(w); err != nil {
		return fmt.Errorf("%w: start job: %v", xerr.Internal, err)
	}

	total := src.NumPages()
	emitted := 0
	for i := 0; i < total; i++ {
		pageNum := i + 1
		if !opts.PageSelected(pageNum) {
			continue
		}
		page, err := src.RenderPage(i)
		if err != nil {
			return fmt.Errorf("%w: render page %d: %v", xerr.Internal, pageNum, err)
		}
		emitted++
		header := buildHeader(opts, outType, color, page, dpiX, dpiY, pageNum, total)

		if err := driver.StartPage(emitted, header); err != nil {
			return fmt.Errorf("%w: start page %d: %v", xerr.Internal, pageNum, err)
		}

		rowHeight := 1
		if outType == model.MimeURF && dpiY != 0 {
			rowHeight = int(dpiX / dpiY)
			if rowHeight < 1 {
				rowHeight = 1
			}
		}

		deviceY := 0
		for y := 0; y < page.Height; y++ {
			row := renderRow(page, y, color, channels, uniformDither)
			for r := 0; r < rowHeight; r++ {
				if err := driver.WriteLine(deviceY, row); err != nil {
					return fmt.Errorf("%w: write line %d of page %d: %v", xerr.Internal, deviceY, pageNum, err)
				}
				deviceY++
			}
		}

		if err := driver.EndPage(); err != nil {
			return fmt.Errorf("%w: end page %d: %v", xerr.Internal, pageNum, err)
		}
		ch.Debug("transformed page %d of %d", pageNum, total)
	}

	if emitted == 0 {
		return fmt.Errorf("%w: no pages selected for output", xerr.BadInput)
	}

	if err := driver.EndJob(); err != nil {
		return fmt.Errorf("%w: end job: %v", xerr.Internal, err)
	}
	return nil
}

func newDriver(outType model.MimeType, opts *model.PrintOptions, cfg *config.ClientConfig, pdfPath string) (Driver, error) {
	switch outType {
	case model.MimePWGRaster, model.MimeURF:
		return NewRasterDriver(outType, opts)
	case model.MimePCL:
		return NewPCLDriver(opts), nil
	case model.MimePCLm:
		return NewPCLmDriver(opts, cfg.PCLmStripHeight), nil
	case model.MimePostScript:
		if HasPdftops() {
			return NewPostScriptPassthrough(pdfPath, opts), nil
		}
		return NewPostScriptDriver(opts), nil
	case model.MimePDF:
		return NewPDFDriver(pdfPath), nil
	default:
		return nil, fmt.Errorf("%w: output type %q", xerr.UnsupportedFormat, outType)
	}
}

// resolveResolution returns the device resolution, defaulting to 300dpi
// (the common printer-resolution default) when the job did not request
// one explicitly.
func resolveResolution(opts *model.PrintOptions) (x, y uint32) {
	x, y = uint32(opts.ResolutionX), uint32(opts.ResolutionY)
	if x == 0 {
		x = 300
	}
	if y == 0 {
		y = x
	}
	return x, y
}

// hundMMToPoints converts a PWG hundredths-of-a-millimeter length to
// 1/72in points.
func hundMMToPoints(v int) uint32 {
	return uint32(float64(v) * 72.0 / 2540.0)
}

// channelsFor returns the number of color channels a colorspace carries,
// the piece of information ColorSpec itself does not encode.
func channelsFor(cs model.ColorSpace) int {
	switch cs {
	case model.ColorSpaceSGray, model.ColorSpaceW, model.ColorSpaceK:
		return 1
	case model.ColorSpaceCMYK, model.ColorSpaceYMCK, model.ColorSpaceKCMY:
		return 4
	default:
		return 3
	}
}

// quality-to-cupsInteger[8] mapping, per the IPP print-quality enum PWG
// raster headers carry in cupsInteger[8].
func qualityCode(q model.Quality) uint32 {
	switch q {
	case model.QualityDraft:
		return 3
	case model.QualityHigh:
		return 5
	default:
		return 4
	}
}

func buildHeader(opts *model.PrintOptions, outType model.MimeType, color ColorSpec, page *RenderedPage, dpiX, dpiY uint32, pageNum, total int) *model.RasterHeader {
	bpp := color.BitsPerColor * uint32(channelsFor(color.ColorSpace))
	bytesPerLine := (uint32(page.Width)*bpp + 7) / 8

	h := &model.RasterHeader{
		HWResolution:     [2]uint32{dpiX, dpiY},
		Duplex:           opts.Sides != model.SidesOneSided,
		Tumble:           opts.SheetBack == model.SheetBackManualTumble,
		NumCopies:        1,
		CUPSWidth:        uint32(page.Width),
		CUPSHeight:       uint32(page.Height),
		CUPSBitsPerColor: color.BitsPerColor,
		CUPSBitsPerPixel: bpp,
		CUPSBytesPerLine: bytesPerLine,
		CUPSColorOrder:   model.ColorOrderChunky,
		CUPSColorSpace:   color.ColorSpace,
		CUPSCompression:  model.CompressionRLE,
	}
	if opts.Copies > 0 {
		h.NumCopies = uint32(opts.Copies)
	}

	pageW := hundMMToPoints(opts.Media.WidthHundMM)
	pageH := hundMMToPoints(opts.Media.HeightHundMM)
	h.PageSize = [2]uint32{pageW, pageH}
	h.Margins = [2]uint32{hundMMToPoints(opts.Media.Margins.Left), hundMMToPoints(opts.Media.Margins.Bottom)}
	h.ImagingBoundingBox = [4]uint32{
		hundMMToPoints(opts.Media.Margins.Left),
		hundMMToPoints(opts.Media.Margins.Bottom),
		pageW - hundMMToPoints(opts.Media.Margins.Right),
		pageH - hundMMToPoints(opts.Media.Margins.Top),
	}

	h.CUPSInteger[model.IntTotalPageCount] = uint32(total)
	h.CUPSInteger[model.IntCrossFeedTransform] = 1
	h.CUPSInteger[model.IntFeedTransform] = 1
	h.CUPSInteger[model.IntImageBoxLeft] = 0
	h.CUPSInteger[model.IntImageBoxTop] = 0
	h.CUPSInteger[model.IntImageBoxRight] = uint32(page.Width)
	h.CUPSInteger[model.IntImageBoxBottom] = uint32(page.Height)
	h.CUPSInteger[model.IntPrintQuality] = qualityCode(opts.Quality)
	if outType == model.MimePWGRaster {
		h.CUPSInteger[model.IntAlternatePrimary] = model.AlternatePrimaryPWG
	}
	return h
}

// renderRow produces one output scanline from a rendered page row,
// reducing channel count and bit depth to match color, and ordered-
// dithering to 1bpp when color.BitsPerColor == 1.
func renderRow(page *RenderedPage, y int, color ColorSpec, channels int, uniformDither bool) []byte {
	if color.BitsPerColor == 1 {
		gray := make([]byte, page.Width)
		for x := 0; x < page.Width; x++ {
			gray[x] = page.GrayAt(x, y)
		}
		return Dither1Bit(gray, y, uniformDither)
	}

	row := make([]byte, page.Width*channels)
	for x := 0; x < page.Width; x++ {
		var r, g, b byte
		if page.Gray {
			r, g, b = page.Pix[y*page.Width+x], page.Pix[y*page.Width+x], page.Pix[y*page.Width+x]
		} else {
			i := (y*page.Width + x) * 3
			r, g, b = page.Pix[i], page.Pix[i+1], page.Pix[i+2]
		}
		switch channels {
		case 1:
			row[x] = page.GrayAt(x, y)
		case 4:
			k := byte(0)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = 255-r, 255-g, 255-b, k
		default:
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
	}
	if color.BitsPerColor == 16 {
		wide := make([]byte, len(row)*2)
		for i, v := range row {
			wide[i*2] = v
			wide[i*2+1] = v
		}
		return wide
	}
	return row
}
