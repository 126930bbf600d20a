// Package xform implements the Transform Pipeline: the per-output-format
// drivers that rasterize the intermediate PDF PREP produced and repackage
// each page into the wire format SINK will transmit. Every driver
// implements the same start_job/start_page/write_line/end_page/end_job
// contract; only how a scanline gets encoded differs between them.
package xform

import (
	"io"

	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/model"
)

// Driver is the uniform per-format contract every output encoder
// implements. A Driver owns no network or file resources beyond the
// io.Writer given to StartJob; SINK decides where those bytes ultimately
// go.
type Driver interface {
	// StartJob begins the output stream, writing any job-level preamble.
	StartJob(w io.Writer) error
	// StartPage begins page n (1-based), writing the page header for the
	// resolved header h.
	StartPage(n int, h *model.RasterHeader) error
	// WriteLine writes scanline y (0-based within the page) of raw,
	// already-rendered pixel bytes in the header's colorspace/depth.
	WriteLine(y int, line []byte) error
	// EndPage finishes the current page.
	EndPage() error
	// EndJob finishes the stream, flushing any buffered state.
	EndJob() error
}

// PageSource supplies one fully-rendered page at a time, abstracting over
// go-fitz and the pdftoppm subprocess fallback rasterize.go implements.
type PageSource interface {
	NumPages() int
	RenderPage(index int) (*RenderedPage, error)
	Close() error
}

// RenderedPage is one rasterized PDF page at the resolved device
// resolution, in 8-bit-per-channel RGB or gray before color/quality
// reduction and dithering are applied.
type RenderedPage struct {
	Width, Height int
	Gray          bool
	Pix           []byte // Width*Height*(1 or 3) bytes, row-major, no padding
}

// Context bundles the resolved options a driver needs beyond the bare
// Driver interface: the diagnostic channel, the chosen wire colorspace,
// and whether this job is duplex (for header/back_header alternation and
// sheet-back tumble byte selection).
type Context struct {
	Opts  *model.PrintOptions
	Ch    *diag.Channel
	Color ColorSpec
}
