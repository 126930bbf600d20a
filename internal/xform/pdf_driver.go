package xform

import (
	"fmt"
	"io"
	"os"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/xerr"
)

// PDFDriver passes the intermediate PDF through unchanged when the
// requested output format is application/pdf: PREP has already produced
// exactly what the sink needs, so XFORM's only job is to copy the bytes.
type PDFDriver struct {
	sourcePath string
	w          io.Writer
}

func NewPDFDriver(sourcePath string) *PDFDriver {
	return &PDFDriver{sourcePath: sourcePath}
}

func (d *PDFDriver) StartJob(w io.Writer) error {
	d.w = w
	f, err := os.Open(d.sourcePath)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return err
	}
	return nil
}

func (d *PDFDriver) StartPage(n int, h *model.RasterHeader) error { return nil }

// WriteLine is never called for PDF passthrough: StartJob already copied
// the whole file, there is no per-scanline step.
func (d *PDFDriver) WriteLine(y int, line []byte) error {
	return fmt.Errorf("%w: WriteLine called on PDFDriver passthrough", xerr.Internal)
}
func (d *PDFDriver) EndPage() error { return nil }
func (d *PDFDriver) EndJob() error  { return nil }
