package xform

import (
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/raster"
	"github.com/printworks/ipptransform/internal/xerr"
)

// RasterDriver writes PWG, CUPS, or Apple raster streams by delegating
// header and scanline framing to internal/raster.Stream; this driver's
// only job is choosing the right Stream.Mode. Every page, duplex or not,
// is written with the header it is given; no separate back-side header
// is produced.
type RasterDriver struct {
	mode    raster.Mode
	stream  *raster.Stream
	opts    *model.PrintOptions
	pageNum int
}

// NewRasterDriver selects the Stream.Mode for outType ("image/pwg-raster",
// "image/urf", or a CUPS-native raster request).
func NewRasterDriver(outType model.MimeType, opts *model.PrintOptions) (*RasterDriver, error) {
	var mode raster.Mode
	switch outType {
	case model.MimePWGRaster:
		mode = raster.ModeWritePWG
	case model.MimeURF:
		mode = raster.ModeWriteApple
	default:
		mode = raster.ModeWriteCompressed
	}
	return &RasterDriver{mode: mode, opts: opts}, nil
}

func (d *RasterDriver) StartJob(w io.Writer) error {
	s, err := raster.Open(d.mode, w)
	if err != nil {
		return err
	}
	d.stream = s
	return nil
}

// StartPage validates h and writes it unchanged. Even (back-side) pages
// of a duplex job get the same header as odd ones: no back_header
// substitution is made, so callers needing a distinct back header pass
// one in.
func (d *RasterDriver) StartPage(n int, h *model.RasterHeader) error {
	d.pageNum = n
	if err := raster.Validate(h); err != nil {
		return err
	}
	return d.stream.WriteHeader(h)
}

func (d *RasterDriver) WriteLine(y int, line []byte) error {
	_, err := d.stream.WritePixels(line)
	if err != nil {
		return fmt.Errorf("%w: raster line %d on page %d: %v", xerr.IoError, y, d.pageNum, err)
	}
	return nil
}

func (d *RasterDriver) EndPage() error {
	return d.stream.EndPage()
}

func (d *RasterDriver) EndJob() error {
	return d.stream.Close()
}
