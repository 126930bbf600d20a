package raster

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
)

// appleDocHeaderMagic is the 4-byte tag preceding the page count in the
// 8-byte Apple document header written once before the first page.
var appleDocHeaderMagic = [4]byte{'A', 'S', 'T', 0}

// appleColorspaceCode maps the colorspaces Apple raster can carry to their
// wire codes, per spec.md §4.1.
var appleColorspaceCode = map[model.ColorSpace]byte{
	model.ColorSpaceSGray:    0,
	model.ColorSpaceSRGB:     1,
	model.ColorSpaceCIELab:   2,
	model.ColorSpaceAdobeRGB: 3,
	model.ColorSpaceW:        4, // DeviceGray
	model.ColorSpaceRGB:      5, // DeviceRGB
	model.ColorSpaceCMYK:     6, // DeviceCMYK
}

var appleColorspaceFromCode = func() map[byte]model.ColorSpace {
	m := make(map[byte]model.ColorSpace, len(appleColorspaceCode))
	for k, v := range appleColorspaceCode {
		m[v] = k
	}
	return m
}()

// appleMediaTypeTable is the fixed 14-entry media-type name table used by
// Apple raster's packed header. Index 0 is "auto". Per the open question
// in spec.md §9, unknown types read back as "other" but a write with no
// matching name falls back to index 0 ("auto") rather than round-tripping
// an arbitrary name — resolved this way because the packed header has no
// room for a free-form type string.
var appleMediaTypeTable = []string{
	"auto", "stationery", "transparency", "envelope", "cardstock",
	"labels", "stationery-letterhead", "disc", "photographic-matte",
	"photographic-satin", "photographic-semi-gloss", "photographic-glossy",
	"photographic-high-gloss", "other",
}

func appleMediaTypeIndex(name string) uint32 {
	for i, n := range appleMediaTypeTable {
		if n == name {
			return uint32(i)
		}
	}
	return 0
}

func appleMediaTypeName(idx uint32) string {
	if int(idx) < len(appleMediaTypeTable) {
		return appleMediaTypeTable[idx]
	}
	return "other"
}

// writeAppleDocHeader writes the 8-byte "AST\0"+page_count document header
// that precedes the first page of an Apple raster stream.
func writeAppleDocHeader(w io.Writer, pageCount uint32) error {
	buf := make([]byte, 8)
	copy(buf[0:4], appleDocHeaderMagic[:])
	binary.BigEndian.PutUint32(buf[4:8], pageCount)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	return nil
}

func readAppleDocHeader(r io.Reader) (uint32, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %v", errIO, err)
	}
	if string(buf[0:3]) != "AST" || buf[3] != 0 {
		return 0, fmt.Errorf("%w: bad apple document header", errMalformed)
	}
	return binary.BigEndian.Uint32(buf[4:8]), nil
}

// duplexTumbleByte packs Duplex/Tumble into the single byte the Apple
// packed header allocates for it: bit0=duplex, bit1=tumble.
func duplexTumbleByte(h *model.RasterHeader) byte {
	var b byte
	if h.Duplex {
		b |= 0x01
	}
	if h.Tumble {
		b |= 0x02
	}
	return b
}

// writeAppleHeader writes the 32-byte packed per-page header.
func writeAppleHeader(w io.Writer, h *model.RasterHeader) error {
	buf := make([]byte, 32)
	buf[0] = byte(h.CUPSBitsPerPixel)
	code, ok := appleColorspaceCode[h.CUPSColorSpace]
	if !ok {
		return fmt.Errorf("%w: colorspace %d has no apple encoding", errMalformed, h.CUPSColorSpace)
	}
	buf[1] = code
	buf[2] = duplexTumbleByte(h)
	buf[3] = byte(qualityCode(h))
	buf[4] = byte(appleMediaTypeIndex(h.MediaType))
	buf[5] = byte(h.MediaPosition)
	// buf[6:12] reserved/zero
	binary.BigEndian.PutUint32(buf[12:16], h.CUPSWidth)
	binary.BigEndian.PutUint32(buf[16:20], h.CUPSHeight)
	binary.BigEndian.PutUint32(buf[20:24], h.HWResolution[0])
	_ = buf[24:32] // reserved tail, zero
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	return nil
}

func qualityCode(h *model.RasterHeader) uint32 {
	if len(h.CUPSInteger) > model.IntPrintQuality {
		return h.CUPSInteger[model.IntPrintQuality]
	}
	return 0
}

// readAppleHeader reads the 32-byte packed header and synthesizes a full
// RasterHeader, defaulting MediaClass to "PwgRaster" per spec.md §4.1.
func readAppleHeader(r io.Reader) (*model.RasterHeader, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", errIO, err)
	}
	h := &model.RasterHeader{MediaClass: "PwgRaster"}
	h.CUPSBitsPerPixel = uint32(buf[0])
	cs, ok := appleColorspaceFromCode[buf[1]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown apple colorspace code %d", errMalformed, buf[1])
	}
	h.CUPSColorSpace = cs
	h.Duplex = buf[2]&0x01 != 0
	h.Tumble = buf[2]&0x02 != 0
	h.CUPSInteger[model.IntPrintQuality] = uint32(buf[3])
	h.MediaType = appleMediaTypeName(uint32(buf[4]))
	h.MediaPosition = uint32(buf[5])
	h.CUPSWidth = binary.BigEndian.Uint32(buf[12:16])
	h.CUPSHeight = binary.BigEndian.Uint32(buf[16:20])
	xdpi := binary.BigEndian.Uint32(buf[20:24])
	h.HWResolution[0] = xdpi
	h.HWResolution[1] = xdpi
	h.CUPSBitsPerColor = bitsPerColorFromPixel(h)
	h.CUPSColorOrder = model.ColorOrderChunky
	h.CUPSCompression = model.CompressionRLE
	h.CUPSBytesPerLine = bytesPerLineFor(h.CUPSWidth, h.CUPSBitsPerPixel)
	return h, nil
}

func bitsPerColorFromPixel(h *model.RasterHeader) uint32 {
	n := numColorsFor(h.CUPSColorSpace)
	if n == 0 {
		return h.CUPSBitsPerPixel
	}
	return h.CUPSBitsPerPixel / uint32(n)
}

func bytesPerLineFor(width, bpp uint32) uint32 {
	return (width*bpp + 7) / 8
}
