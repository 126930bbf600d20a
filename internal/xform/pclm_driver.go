package xform

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/xerr"
)

// pclmStripHeightDefault and the env-clamped bounds match spec.md §4.3's
// IPP_PCLM_STRIP_HEIGHT_PREFERRED handling.
const (
	pclmStripHeightDefault = 16
	pclmStripHeightMin     = 16
	pclmStripHeightMax     = 256
)

// PCLmDriver assembles a PDF/1.7 file whose every page is a stack of
// fixed-height FlateDecode image strips, per spec.md §4.3. It is
// spooled to the sink only at EndJob, since a PDF's xref table cannot be
// written until every object is known.
//
// pdfcpu's own object model (pkg/pdfcpu/model's XRefTable/StreamDict) is
// unexported outside that module, and go-pdf/fpdf has no way to place a
// raw FlateDecode image XObject without re-encoding through a supported
// image codec — so this driver writes PDF objects directly. The object
// graph is intentionally minimal: one Catalog, one Pages tree, one Page
// dict and one strip-count image XObjects per page, and a single
// classic (non-cross-reference-stream) xref table, mirroring the object
// shapes pdfio assembles in original_source/tools/ipptransform.c's
// pclm_* functions without reproducing pdfio itself.
type PCLmDriver struct {
	stripHeight int
	opts        *model.PrintOptions
	out         io.Writer

	buf      bytes.Buffer
	offsets  []int64
	pagesObj int // reserved up front so each Page dict can reference /Parent
	kids     []int
	pageNum  int

	curPage    []pclmStrip
	curW, curH int
	curXDPI    float64
	curYDPI    float64
}

type pclmStrip struct {
	height int
	data   []byte // raw scanline bytes, flate-compressed lazily at EndPage
}

func NewPCLmDriver(opts *model.PrintOptions, stripHeightPreferred int) *PCLmDriver {
	h := stripHeightPreferred
	if h < pclmStripHeightMin {
		h = pclmStripHeightMin
	}
	if h > pclmStripHeightMax {
		h = pclmStripHeightMax
	}
	return &PCLmDriver{stripHeight: h, opts: opts}
}

func (d *PCLmDriver) StartJob(w io.Writer) error {
	d.out = w
	d.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	d.pagesObj = d.reserveObjID()
	return nil
}

func (d *PCLmDriver) nextObjID() int {
	return len(d.offsets) + 1
}

func (d *PCLmDriver) writeObj(body []byte) int {
	id := d.nextObjID()
	d.offsets = append(d.offsets, int64(d.buf.Len()))
	fmt.Fprintf(&d.buf, "%d 0 obj\n", id)
	d.buf.Write(body)
	d.buf.WriteString("\nendobj\n")
	return id
}

func (d *PCLmDriver) reserveObjID() int {
	id := d.nextObjID()
	d.offsets = append(d.offsets, -1)
	return id
}

func (d *PCLmDriver) writeObjAt(id int, body []byte) {
	d.offsets[id-1] = int64(d.buf.Len())
	fmt.Fprintf(&d.buf, "%d 0 obj\n", id)
	d.buf.Write(body)
	d.buf.WriteString("\nendobj\n")
}

func (d *PCLmDriver) StartPage(n int, h *model.RasterHeader) error {
	d.pageNum = n
	d.curPage = nil
	d.curW = int(h.CUPSWidth)
	d.curH = int(h.CUPSHeight)
	d.curXDPI = float64(h.HWResolution[0])
	d.curYDPI = float64(h.HWResolution[1])
	if d.curXDPI == 0 {
		d.curXDPI = 72
	}
	if d.curYDPI == 0 {
		d.curYDPI = 72
	}
	return nil
}

// WriteLine buffers scanlines by strip index until EndPage, where each
// strip's accumulated rows are FlateDecode-compressed into one image
// XObject.
func (d *PCLmDriver) WriteLine(y int, line []byte) error {
	stripIndex := y / d.stripHeight
	for len(d.curPage) <= stripIndex {
		d.curPage = append(d.curPage, pclmStrip{})
	}
	s := &d.curPage[stripIndex]
	s.data = append(s.data, line...)
	s.height++
	return nil
}

func (d *PCLmDriver) EndPage() error {
	colorSpaceName := "DeviceRGB"
	if d.opts.PrintColorMode == model.ColorModeMonochrome || d.opts.PrintColorMode == model.ColorModeBiLevel {
		colorSpaceName = "DeviceGray"
	}

	stripObjs := make([]int, len(d.curPage))
	for i, s := range d.curPage {
		compressed, err := flateCompress(s.data)
		if err != nil {
			return fmt.Errorf("%w: %v", xerr.Internal, err)
		}
		var dict bytes.Buffer
		fmt.Fprintf(&dict, "<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
			"/ColorSpace /%s /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n",
			d.curW, s.height, colorSpaceName, len(compressed))
		dict.Write(compressed)
		dict.WriteString("\nendstream")
		stripObjs[i] = d.writeObj(dict.Bytes())
	}

	var content bytes.Buffer
	for i := len(d.curPage) - 1; i >= 0; i-- {
		s := d.curPage[i]
		yOffset := d.curH - (i+1)*d.stripHeight
		if yOffset < 0 {
			yOffset = 0
		}
		fmt.Fprintf(&content, "q %f 0 0 %f 0 0 cm %f 0 0 %d 0 %d cm /Im%d Do Q\n",
			72.0/d.curXDPI, 72.0/d.curYDPI, float64(d.curW), s.height, yOffset, i)
	}

	contentID := d.writeObj([]byte(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
		content.Len(), content.String())))

	var xobjDict bytes.Buffer
	xobjDict.WriteString("<< ")
	for i, id := range stripObjs {
		fmt.Fprintf(&xobjDict, "/Im%d %d 0 R ", i, id)
	}
	xobjDict.WriteString(">>")

	pageBody := fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %f %f] /Resources << /XObject %s >> /Contents %d 0 R >>",
		d.pagesObj, float64(d.curW)*72.0/d.curXDPI, float64(d.curH)*72.0/d.curYDPI, xobjDict.String(), contentID)
	pageID := d.writeObj([]byte(pageBody))
	d.kids = append(d.kids, pageID)
	return nil
}

func (d *PCLmDriver) EndJob() error {
	kids := ""
	for _, id := range d.kids {
		kids += fmt.Sprintf("%d 0 R ", id)
	}
	pagesBody := fmt.Sprintf("<< /Type /Pages /Kids [ %s] /Count %d >>", kids, len(d.kids))
	d.writeObjAt(d.pagesObj, []byte(pagesBody))

	catalogBody := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", d.pagesObj)
	catalogID := d.writeObj([]byte(catalogBody))

	xrefOffset := d.buf.Len()
	fmt.Fprintf(&d.buf, "xref\n0 %d\n", len(d.offsets)+1)
	d.buf.WriteString("0000000000 65535 f \n")
	for _, off := range d.offsets {
		fmt.Fprintf(&d.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&d.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(d.offsets)+1, catalogID, xrefOffset)

	_, err := d.out.Write(d.buf.Bytes())
	return err
}

func flateCompress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	zw, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
