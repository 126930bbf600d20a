package xform

import (
	"encoding/ascii85"
	"fmt"
	"io"
	"os/exec"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/xerr"
)

// PostScriptDriver implements spec.md §4.3's PostScript output: when a
// pdftops binary exists, Run delegates end-to-end by spawning pdftops on
// the intermediate PDF and splicing its stdout to the sink, whatever the
// job's input format. Otherwise it synthesizes PostScript directly, one
// ASCII85-encoded Image operator per scanline.
type PostScriptDriver struct {
	opts       *model.PrintOptions
	sourcePath string // set for pdftops delegation: the PDF pdftops converts
	w          io.Writer
	pageNum    int
	copies     int
	bpp        int
	width      int
}

// NewPostScriptDriver builds a driver that synthesizes PostScript from
// raster scanlines. Use NewPostScriptPassthrough when pdftops is
// available.
func NewPostScriptDriver(opts *model.PrintOptions) *PostScriptDriver {
	return &PostScriptDriver{opts: opts, copies: 1}
}

// NewPostScriptPassthrough builds a driver that delegates entirely to the
// external pdftops binary on sourcePath, a PDF file.
func NewPostScriptPassthrough(sourcePath string, opts *model.PrintOptions) *PostScriptDriver {
	return &PostScriptDriver{opts: opts, sourcePath: sourcePath}
}

// HasPdftops reports whether the pdftops binary is on PATH, the gate
// spec.md §4.3 uses to decide between delegation and synthesis.
func HasPdftops() bool {
	_, err := exec.LookPath("pdftops")
	return err == nil
}

func (d *PostScriptDriver) StartJob(w io.Writer) error {
	d.w = w
	if d.sourcePath != "" {
		return d.runPdftops()
	}
	_, err := io.WriteString(w, "%!PS-Adobe-3.0\n")
	return err
}

func (d *PostScriptDriver) runPdftops() error {
	cmd := exec.Command("pdftops", d.sourcePath, "-")
	cmd.Stdout = d.w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: pdftops: %v", xerr.ChildProcessFailed, err)
	}
	return nil
}

func (d *PostScriptDriver) StartPage(n int, h *model.RasterHeader) error {
	if d.sourcePath != "" {
		return nil
	}
	d.pageNum = n
	d.bpp = int((h.CUPSBitsPerPixel + 7) / 8)
	if d.bpp < 1 {
		d.bpp = 1
	}
	d.width = int(h.CUPSWidth)

	colorSpace := "DeviceGray"
	if h.CUPSColorSpace == model.ColorSpaceRGB || h.CUPSColorSpace == model.ColorSpaceSRGB || h.CUPSColorSpace == model.ColorSpaceAdobeRGB {
		colorSpace = "DeviceRGB"
	}

	fmt.Fprintf(d.w, "%%%%Page: %d %d\n", n, n)
	fmt.Fprintf(d.w, "<< /NumCopies %d >> setpagedevice\n", d.copies)
	fmt.Fprintf(d.w, "gsave\n")
	fmt.Fprintf(d.w, "%f %f scale\n", 72.0/float64(h.HWResolution[0]), 72.0/float64(h.HWResolution[1]))
	fmt.Fprintf(d.w, "/%s setcolorspace\n", colorSpace)
	fmt.Fprintf(d.w, "/L { currentfile /ASCII85Decode filter } def\n")
	return nil
}

func (d *PostScriptDriver) WriteLine(y int, line []byte) error {
	if d.sourcePath != "" {
		return nil
	}
	fmt.Fprintf(d.w, "%d %d L image\n", d.width, d.bpp*8)
	enc := ascii85.NewEncoder(d.w)
	if _, err := enc.Write(line); err != nil {
		return fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	_, err := io.WriteString(d.w, "~>\n")
	return err
}

func (d *PostScriptDriver) EndPage() error {
	if d.sourcePath != "" {
		return nil
	}
	_, err := io.WriteString(d.w, "grestore\nshowpage\n")
	return err
}

func (d *PostScriptDriver) EndJob() error {
	if d.sourcePath != "" {
		return nil
	}
	_, err := io.WriteString(d.w, "%%EOF\n")
	return err
}
