package xform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
)

// PCLDriver emits HP PCL/PJL escape sequences wrapping PackBits-compressed
// raster rows, per spec.md §4.3. Its PackBits variant differs from
// internal/raster's in one respect: it never emits the 0x80
// clear-to-end-of-line opcode, so an identical-run-to-end-of-row is
// expanded as an ordinary repeat run instead.
type PCLDriver struct {
	w         io.Writer
	opts      *model.PrintOptions
	pageNum   int
	totalPage int
	prevRow   []byte
	bpp       int
}

func NewPCLDriver(opts *model.PrintOptions) *PCLDriver {
	return &PCLDriver{opts: opts}
}

func (d *PCLDriver) StartJob(w io.Writer) error {
	d.w = w
	_, err := io.WriteString(w, "\x1bE")
	return err
}

func (d *PCLDriver) duplexCode() int {
	switch d.opts.Sides {
	case model.SidesTwoSidedLongEdge:
		return 1
	case model.SidesTwoSidedShortEdge:
		return 2
	default:
		return 0
	}
}

func (d *PCLDriver) StartPage(n int, h *model.RasterHeader) error {
	d.pageNum = n
	d.prevRow = nil
	d.bpp = int((h.CUPSBitsPerPixel + 7) / 8)
	if d.bpp < 1 {
		d.bpp = 1
	}
	d.totalPage = int(h.CUPSInteger[model.IntTotalPageCount])
	topMarginLines := int(h.HWResolution[1]) * int(h.ImagingBoundingBox[1]) / 72
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\x1b&l%dA", pclPageSizeCode(h))
	fmt.Fprintf(&buf, "\x1b&l12D\x1b&k12H")
	fmt.Fprintf(&buf, "\x1b&l0O")
	fmt.Fprintf(&buf, "\x1b&l%dE", topMarginLines)
	fmt.Fprintf(&buf, "\x1b&l0L")
	fmt.Fprintf(&buf, "\x1b&l%dS", d.duplexCode())
	fmt.Fprintf(&buf, "\x1b*t%dR", h.HWResolution[0])
	fmt.Fprintf(&buf, "\x1b*r%dS\x1b*r%dT", h.CUPSWidth, h.CUPSHeight)
	fmt.Fprintf(&buf, "\x1b&a0H\x1b&a%dV", h.ImagingBoundingBox[1])
	fmt.Fprintf(&buf, "\x1b*b2M")
	fmt.Fprintf(&buf, "\x1b*r1A")
	_, err := buf.WriteTo(d.w)
	return err
}

// pclPageSizeCode maps a page height in device points to PCL's fixed size
// codes; spec.md does not enumerate every code, so unknown heights fall
// back to 2 (letter), matching PCL's own undefined-size behavior.
func pclPageSizeCode(h *model.RasterHeader) int {
	switch {
	case h.PageSize[1] >= 832 && h.PageSize[1] <= 852: // A4, 297mm (842pt)
		return 26
	case h.PageSize[1] >= 1000 && h.PageSize[1] <= 1020: // legal, 14in
		return 3
	default:
		return 2 // letter
	}
}

func (d *PCLDriver) WriteLine(y int, line []byte) error {
	if d.prevRow != nil && bytes.Equal(d.prevRow, line) {
		// identical row: skip re-encoding and re-emit it via ESC *b1Y.
		_, err := io.WriteString(d.w, "\x1b*b1Y")
		return err
	}
	encoded := pclPackBitsEncode(line, d.bpp)
	if _, err := fmt.Fprintf(d.w, "\x1b*b%dW", len(encoded)); err != nil {
		return err
	}
	if _, err := d.w.Write(encoded); err != nil {
		return err
	}
	d.prevRow = append(d.prevRow[:0], line...)
	return nil
}

func (d *PCLDriver) EndPage() error {
	if _, err := io.WriteString(d.w, "\x1b*r0B"); err != nil {
		return err
	}
	if !d.lastPage() {
		_, err := d.w.Write([]byte{0x0c})
		return err
	}
	return nil
}

// lastPage reports whether the current page is the job's last, using
// TotalPageCount when the header carried one; PREP always resolves this
// before XFORM starts so 0 (unknown) never reaches here in practice.
func (d *PCLDriver) lastPage() bool {
	return d.totalPage != 0 && d.pageNum >= d.totalPage
}

func (d *PCLDriver) EndJob() error {
	_, err := io.WriteString(d.w, "\x1bE")
	return err
}

// pclPackBitsEncode implements the §4.1 modified-PackBits algorithm at
// pixel granularity (bpp bytes per pixel), but omits the 0x80
// clear-to-end-of-line opcode the raster codec uses: a uniform tail here
// is encoded as an ordinary repeat run like any other, per spec.md §4.3.
func pclPackBitsEncode(row []byte, bpp int) []byte {
	var out bytes.Buffer
	n := len(row)
	i := 0
	for i < n {
		runLen := pclRepeatRunLength(row, i, bpp)
		if runLen >= 2 {
			pix := row[i : i+bpp]
			remaining := runLen
			for remaining > 0 {
				chunk := remaining
				if chunk > 128 {
					chunk = 128
				}
				out.WriteByte(byte(257 - chunk))
				out.Write(pix)
				remaining -= chunk
			}
			i += runLen * bpp
			continue
		}
		start := i
		count := 0
		for i < n {
			if pclRepeatRunLength(row, i, bpp) >= 2 {
				break
			}
			i += bpp
			count++
			if count == 128 {
				break
			}
		}
		out.WriteByte(byte(count - 1))
		out.Write(row[start:i])
	}
	return out.Bytes()
}

// pclRepeatRunLength returns how many consecutive identical bpp-sized
// pixels start at row[i:].
func pclRepeatRunLength(row []byte, i, bpp int) int {
	n := len(row)
	if i+bpp > n {
		return 0
	}
	pix := row[i : i+bpp]
	count := 1
	for j := i + bpp; j+bpp <= n; j += bpp {
		if !bytes.Equal(row[j:j+bpp], pix) {
			break
		}
		count++
	}
	return count
}
