package xform

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/printworks/ipptransform/internal/xerr"
)

// fitzSource rasterizes pages with gen2brain/go-fitz (MuPDF bindings),
// grounded on ceelsoin-tspl-...'s pdfToPngPages. Preferred over the
// pdftoppm fallback when the fitz shared library is available.
type fitzSource struct {
	doc *fitz.Document
	dpi float64
}

// OpenFitz opens pdfPath for page-by-page rasterization at dpi. Returns an
// error the caller should treat as "fall back to pdftoppm", not a fatal
// job error.
func OpenFitz(pdfPath string, dpi float64) (PageSource, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf with fitz: %v", xerr.Internal, err)
	}
	return &fitzSource{doc: doc, dpi: dpi}, nil
}

func (f *fitzSource) NumPages() int { return f.doc.NumPage() }

func (f *fitzSource) RenderPage(index int) (*RenderedPage, error) {
	img, err := f.doc.ImageDPI(index, f.dpi)
	if err != nil {
		return nil, fmt.Errorf("%w: render page %d: %v", xerr.Internal, index+1, err)
	}
	return rgbaToRendered(img), nil
}

func (f *fitzSource) Close() error {
	return f.doc.Close()
}

func rgbaToRendered(img image.Image) *RenderedPage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pix[i] = byte(r >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(bl >> 8)
			i += 3
		}
	}
	return &RenderedPage{Width: w, Height: h, Pix: pix}
}

// pdftoppmSource shells out to poppler's pdftoppm, for hosts without the
// fitz shared library. Each invocation renders the whole document to a
// directory of PPM files once, then serves RenderPage calls from disk.
type pdftoppmSource struct {
	dir   string
	pages []string
}

// OpenPdftoppm rasterizes pdfPath into a temp directory of PPM pages at
// dpi using the external pdftoppm binary.
func OpenPdftoppm(pdfPath string, dpi float64) (PageSource, error) {
	dir, err := os.MkdirTemp("", "ipptransform-ppm-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerr.Internal, err)
	}
	prefix := filepath.Join(dir, "page")
	cmd := exec.Command("pdftoppm", "-r", fmt.Sprintf("%.0f", dpi), pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", xerr.ChildProcessFailed, err, out)
	}
	entries, err := filepath.Glob(prefix + "-*.ppm")
	if err != nil || len(entries) == 0 {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: pdftoppm produced no pages", xerr.ChildProcessFailed)
	}
	return &pdftoppmSource{dir: dir, pages: entries}, nil
}

func (p *pdftoppmSource) NumPages() int { return len(p.pages) }

func (p *pdftoppmSource) RenderPage(index int) (*RenderedPage, error) {
	if index < 0 || index >= len(p.pages) {
		return nil, fmt.Errorf("%w: page index %d out of range", xerr.Internal, index)
	}
	f, err := os.Open(p.pages[index])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	defer f.Close()
	return decodePPM(bufio.NewReader(f))
}

func (p *pdftoppmSource) Close() error {
	return os.RemoveAll(p.dir)
}

// decodePPM reads a binary (P6) PPM image, the format pdftoppm emits.
func decodePPM(r *bufio.Reader) (*RenderedPage, error) {
	var magic string
	var w, h, maxVal int
	if _, err := fmt.Fscan(r, &magic); err != nil {
		return nil, fmt.Errorf("%w: ppm header: %v", xerr.MalformedHeader, err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("%w: unsupported ppm magic %q", xerr.MalformedHeader, magic)
	}
	if _, err := fmt.Fscan(r, &w, &h, &maxVal); err != nil {
		return nil, fmt.Errorf("%w: ppm dims: %v", xerr.MalformedHeader, err)
	}
	// Consume the single whitespace byte that follows maxVal.
	if _, err := r.ReadByte(); err != nil {
		return nil, fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	pix := make([]byte, w*h*3)
	if _, err := readFull(r, pix); err != nil {
		return nil, fmt.Errorf("%w: ppm body: %v", xerr.IoError, err)
	}
	return &RenderedPage{Width: w, Height: h, Pix: pix}, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		k, err := r.Read(buf[n:])
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// GrayAt returns the luma-weighted gray value of pixel (x, y) in a
// RenderedPage's RGB buffer.
func (p *RenderedPage) GrayAt(x, y int) byte {
	if p.Gray {
		return p.Pix[y*p.Width+x]
	}
	i := (y*p.Width + x) * 3
	r, g, b := int(p.Pix[i]), int(p.Pix[i+1]), int(p.Pix[i+2])
	return byte((299*r + 587*g + 114*b) / 1000)
}

// OpenPageSource tries fitz first and falls back to pdftoppm, matching
// spec.md §4.3's dual-path rendering strategy.
func OpenPageSource(pdfPath string, dpi float64) (PageSource, error) {
	if src, err := OpenFitz(pdfPath, dpi); err == nil {
		return src, nil
	}
	return OpenPdftoppm(pdfPath, dpi)
}
