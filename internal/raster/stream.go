package raster

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
)

// Mode selects how a Stream interprets the byte sequence it reads or
// writes.
type Mode int

const (
	ModeRead            Mode = iota
	ModeWrite                // CUPS v2, uncompressed (RaS3)
	ModeWriteCompressed      // CUPS v2, PackBits-compressed (RaS2), CUPS-native semantics
	ModeWritePWG             // CUPS v2, PackBits-compressed, PWG field normalization, always big-endian
	ModeWriteApple           // Apple/URF, 32-byte packed header + PackBits rows
)

// Stream is a read or write handle over one raster document: a
// sync-word-identified sequence of (header, rows) pages. All I/O goes
// through the io.Reader/io.Writer supplied at Open, satisfying the
// "callback becomes a Writer capability" design note instead of a void*
// context parameter.
type Stream struct {
	mode        Mode
	w           io.Writer
	r           io.Reader
	bo          binary.ByteOrder
	swapped     bool
	readVariant Variant

	applePageCount uint32
	headerCount    int // number of headers written/read so far

	header        *model.RasterHeader
	bpp           int
	bytesPerLine  int
	rowHeight     int
	fillByte      byte
	remainingRows uint32

	// write-side PackBits row coalescing.
	rowBuf    []byte
	rowFill   int
	prevRow   []byte
	haveRun   bool
	runRepeat int
	maxRepeat int

	// read-side decode state for the current page.
	dec *rowDecoder
}

// Open creates a write-mode Stream. mode must not be ModeRead; use
// OpenReader to read.
func Open(mode Mode, w io.Writer) (*Stream, error) {
	if mode == ModeRead {
		return nil, fmt.Errorf("%w: Open requires a write mode", errMalformed)
	}
	return &Stream{mode: mode, w: w, bo: binary.BigEndian}, nil
}

// OpenReader creates a read-mode Stream, consuming and validating the
// leading sync word (and, for Apple streams, the 8-byte document header).
func OpenReader(r io.Reader) (*Stream, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", errIO, err)
	}
	variant, swapped, err := parseSync(magic)
	if err != nil {
		return nil, err
	}
	s := &Stream{mode: ModeRead, r: r, swapped: swapped, readVariant: variant}
	if swapped {
		s.bo = binary.LittleEndian
	} else {
		s.bo = binary.BigEndian
	}
	if variant == VariantApple {
		pageCount, err := readAppleDocHeader(r)
		if err != nil {
			return nil, err
		}
		s.applePageCount = pageCount
	}
	return s, nil
}

// ApplePageCount returns the page count declared in an Apple stream's
// document header. Only meaningful after OpenReader on an Apple stream.
func (s *Stream) ApplePageCount() uint32 { return s.applePageCount }

func variantForMode(mode Mode) Variant {
	switch mode {
	case ModeWrite:
		return VariantV2
	case ModeWriteCompressed, ModeWritePWG:
		return VariantV2Compressed
	case ModeWriteApple:
		return VariantApple
	default:
		return VariantV2
	}
}

// WriteHeader starts a new page, writing the sync word and/or Apple
// document header on the very first call, then the page header itself.
// Any unflushed rows from the previous page are flushed first.
func (s *Stream) WriteHeader(h *model.RasterHeader) error {
	if s.mode == ModeRead {
		return fmt.Errorf("%w: stream opened for reading", errMalformed)
	}
	if err := s.flushPending(); err != nil {
		return err
	}

	hdr := *h
	if s.mode == ModeWritePWG {
		normalizePWG(&hdr)
	}

	if s.headerCount == 0 {
		if _, err := s.w.Write([]byte(syncFor(variantForMode(s.mode)))); err != nil {
			return fmt.Errorf("%w: %v", errIO, err)
		}
		if s.mode == ModeWriteApple {
			if err := writeAppleDocHeader(s.w, hdr.CUPSInteger[model.IntTotalPageCount]); err != nil {
				return err
			}
		}
	}
	s.headerCount++

	switch s.mode {
	case ModeWrite:
		if err := writeFull(s.w, &hdr, s.bo); err != nil {
			return err
		}
	case ModeWriteCompressed, ModeWritePWG:
		if err := writeFull(s.w, &hdr, s.bo); err != nil {
			return err
		}
	case ModeWriteApple:
		if err := writeAppleHeader(s.w, &hdr); err != nil {
			return err
		}
	}

	s.beginPage(&hdr)
	return nil
}

func (s *Stream) beginPage(h *model.RasterHeader) {
	s.header = h
	s.bpp = bytesPerPixel(h)
	s.bytesPerLine = int(h.CUPSBytesPerLine)
	s.fillByte = 0x00
	if h.CUPSColorSpace.ClearFillsWhite() {
		s.fillByte = 0xff
	}
	s.rowHeight = 1
	if s.mode == ModeWriteApple && h.HWResolution[1] != 0 {
		s.rowHeight = int(h.HWResolution[0] / h.HWResolution[1])
		if s.rowHeight < 1 {
			s.rowHeight = 1
		}
	}
	s.maxRepeat = 256 - s.rowHeight
	if s.maxRepeat < 1 {
		s.maxRepeat = 1
	}
	planes := 1
	if h.CUPSColorOrder == model.ColorOrderBanded || h.CUPSColorOrder == model.ColorOrderPlanar {
		if n := numColorsFor(h.CUPSColorSpace); n > 0 {
			planes = n
		}
	}
	s.remainingRows = h.CUPSHeight * uint32(planes)

	s.rowBuf = make([]byte, 0, s.bytesPerLine)
	s.rowFill = 0
	s.prevRow = nil
	s.haveRun = false
	s.runRepeat = 0

	if s.mode == ModeRead {
		s.dec = newRowDecoder(s.r, s.bytesPerLine, s.bpp, s.fillByte)
	}
}

// WritePixels writes raw scanline bytes, which may span multiple rows or
// only part of one; the Stream buffers until a full cupsBytesPerLine row
// is accumulated. For the compressed modes it then coalesces identical
// consecutive rows via the modified PackBits row-repeat opcode before
// emitting. For ModeWrite it passes bytes straight through, swapping
// 16-bit samples when the stream is in swapped byte order.
func (s *Stream) WritePixels(p []byte) (int, error) {
	if s.header == nil {
		return 0, fmt.Errorf("%w: WritePixels before WriteHeader", errMalformed)
	}
	total := len(p)
	switch s.mode {
	case ModeWrite:
		if err := s.writeUncompressed(p); err != nil {
			return 0, err
		}
	default:
		for len(p) > 0 {
			need := s.bytesPerLine - s.rowFill
			n := need
			if n > len(p) {
				n = len(p)
			}
			s.rowBuf = append(s.rowBuf, p[:n]...)
			s.rowFill += n
			p = p[n:]
			if s.rowFill == s.bytesPerLine {
				row := append([]byte(nil), s.rowBuf...)
				if err := s.submitRow(row); err != nil {
					return 0, err
				}
				s.rowBuf = s.rowBuf[:0]
				s.rowFill = 0
			}
		}
	}
	return total, nil
}

func (s *Stream) writeUncompressed(p []byte) error {
	if s.swapped16() {
		out := make([]byte, len(p))
		for i := 0; i+1 < len(p); i += 2 {
			out[i], out[i+1] = p[i+1], p[i]
		}
		if len(p)%2 == 1 {
			out[len(p)-1] = p[len(p)-1]
		}
		p = out
	}
	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	return nil
}

func (s *Stream) swapped16() bool {
	return s.swapped && (s.header.CUPSBitsPerColor == 12 || s.header.CUPSBitsPerColor == 16)
}

// submitRow coalesces row into the pending run, flushing the previous run
// if row differs or the run has reached its cap.
func (s *Stream) submitRow(row []byte) error {
	if s.haveRun && rowsEqual(s.prevRow, row) && s.runRepeat < s.maxRepeat-1 {
		s.runRepeat++
		return nil
	}
	if s.haveRun {
		if err := s.emitRun(s.prevRow, s.runRepeat); err != nil {
			return err
		}
	}
	s.prevRow = row
	s.runRepeat = 0
	s.haveRun = true
	return nil
}

func rowsEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Stream) emitRun(row []byte, repeatCount int) error {
	if _, err := s.w.Write([]byte{byte(repeatCount)}); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	encoded := encodeRow(row, s.bpp, s.fillByte)
	if _, err := s.w.Write(encoded); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	return nil
}

// flushPending emits any buffered row-repeat run. Called automatically
// before the next WriteHeader; callers may also call EndPage explicitly.
func (s *Stream) flushPending() error {
	if s.mode == ModeRead || !s.haveRun {
		return nil
	}
	if err := s.emitRun(s.prevRow, s.runRepeat); err != nil {
		return err
	}
	s.haveRun = false
	s.prevRow = nil
	s.runRepeat = 0
	return nil
}

// EndPage must be called after the last WritePixels call of a page for
// compressed modes, flushing any buffered row-repeat run. Close calls it
// automatically.
func (s *Stream) EndPage() error { return s.flushPending() }

// Close flushes any pending row run. The underlying writer's lifecycle is
// the caller's responsibility.
func (s *Stream) Close() error { return s.flushPending() }

// ReadHeader reads the next page header. For CUPS v1/v2 streams this
// reads the wire header directly; for Apple streams it reads the 32-byte
// packed header and synthesizes a full RasterHeader.
func (s *Stream) ReadHeader() (*model.RasterHeader, error) {
	if s.mode != ModeRead {
		return nil, fmt.Errorf("%w: stream opened for writing", errMalformed)
	}
	var h *model.RasterHeader
	var err error
	switch s.readVariant {
	case VariantV1:
		h, err = readFull1(s.r, s.bo)
	case VariantV2, VariantV2Compressed:
		h, err = readFull(s.r, s.bo)
	case VariantApple:
		h, err = readAppleHeader(s.r)
	default:
		return nil, fmt.Errorf("%w: unknown variant", errMalformed)
	}
	if err != nil {
		return nil, err
	}
	if h.CUPSNumColors == 0 {
		h.CUPSNumColors = uint32(numColorsFor(h.CUPSColorSpace))
	}
	if err := Validate(h); err != nil {
		return nil, err
	}
	s.headerCount++
	s.beginPage(h)
	return h, nil
}

func readFull1(r io.Reader, bo binary.ByteOrder) (*model.RasterHeader, error) {
	buf := make([]byte, v1HeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", errIO, err)
	}
	return decodeV1(buf, bo)
}

// ReadPixels fills buf with decoded pixel bytes, transparently crossing
// row boundaries and lazily decoding one compressed scanline at a time.
func (s *Stream) ReadPixels(buf []byte) (int, error) {
	if s.header == nil {
		return 0, fmt.Errorf("%w: ReadPixels before ReadHeader", errMalformed)
	}
	if s.readVariant == VariantV1 || s.readVariant == VariantV2 {
		n, err := io.ReadFull(s.r, buf)
		if err != nil {
			return n, fmt.Errorf("%w: %v", errIO, err)
		}
		if s.swapped16() {
			for i := 0; i+1 < n; i += 2 {
				buf[i], buf[i+1] = buf[i+1], buf[i]
			}
		}
		return n, nil
	}

	got := 0
	for got < len(buf) {
		row, err := s.dec.readRow()
		if err != nil {
			return got, err
		}
		n := copy(buf[got:], row)
		got += n
	}
	return got, nil
}

// Header returns the most recently read or written page header.
func (s *Stream) Header() *model.RasterHeader { return s.header }
