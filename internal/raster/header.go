package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/printworks/ipptransform/internal/model"
)

// v1 header is 4 string fields (64 bytes each) + 41 uint32 fields = 256 + 164 = 420 bytes.
const (
	stringFieldLen = 64
	v1NumStringFields = 4
	v1NumUint32Fields = 41
	v1HeaderLen = v1NumStringFields*stringFieldLen + v1NumUint32Fields*4 // 420

	// v2 extension: numColors, borderlessScaling, pageSize[2], imagingBBox[4],
	// integer[16], real[16] = 1+1+2+4+16+16 = 40 numeric fields (4 bytes
	// each) + 16 strings (64B) + 3 strings (64B) = 160 + 1024 + 192 = 1376
	v2NumNumericFields = 1 + 1 + 2 + 4 + 16 + 16
	v2ExtraStrings     = 16 + 3
	v2ExtensionLen     = v2NumNumericFields*4 + v2ExtraStrings*stringFieldLen

	fullHeaderLen = v1HeaderLen + v2ExtensionLen // 1796, matches spec.md
)

func putString(buf []byte, off int, s string) {
	b := buf[off : off+stringFieldLen]
	for i := range b {
		b[i] = 0
	}
	copy(b, s)
}

func getString(buf []byte, off int) string {
	b := buf[off : off+stringFieldLen]
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		n = len(b)
	}
	return string(b[:n])
}

// encodeV1 writes the 420-byte truncated (v1) header body in the given
// byte order, returning the full buffer.
func encodeV1(h *model.RasterHeader, bo binary.ByteOrder) []byte {
	buf := make([]byte, v1HeaderLen)
	putString(buf, 0, h.MediaClass)
	putString(buf, 64, h.MediaColor)
	putString(buf, 128, h.MediaType)
	putString(buf, 192, h.OutputType)

	off := 256
	putU32 := func(v uint32) { bo.PutUint32(buf[off:off+4], v); off += 4 }
	putBool := func(v bool) {
		if v {
			putU32(1)
		} else {
			putU32(0)
		}
	}

	putU32(h.AdvanceDistance)
	putU32(h.AdvanceMedia)
	putBool(h.Collate)
	putU32(h.CutMedia)
	putBool(h.Duplex)
	putU32(h.HWResolution[0])
	putU32(h.HWResolution[1])
	putU32(h.ImagingBoundingBox[0])
	putU32(h.ImagingBoundingBox[1])
	putU32(h.ImagingBoundingBox[2])
	putU32(h.ImagingBoundingBox[3])
	putBool(h.InsertSheet)
	putU32(h.Jog)
	putU32(h.LeadingEdge)
	putU32(h.Margins[0])
	putU32(h.Margins[1])
	putBool(h.ManualFeed)
	putU32(h.MediaPosition)
	putU32(h.MediaWeight)
	putBool(h.MirrorPrint)
	putBool(h.NegativePrint)
	putU32(h.NumCopies)
	putU32(h.Orientation)
	putBool(h.OutputFaceUp)
	putU32(h.PageSize[0])
	putU32(h.PageSize[1])
	putBool(h.Separations)
	putBool(h.TraySwitch)
	putBool(h.Tumble)
	putU32(h.CUPSWidth)
	putU32(h.CUPSHeight)
	putU32(h.CUPSMediaType)
	putU32(h.CUPSBitsPerColor)
	putU32(h.CUPSBitsPerPixel)
	putU32(h.CUPSBytesPerLine)
	putU32(uint32(h.CUPSColorOrder))
	putU32(uint32(h.CUPSColorSpace))
	putU32(uint32(h.CUPSCompression))
	putU32(h.CUPSRowCount)
	putU32(h.CUPSRowFeed)
	putU32(h.CUPSRowStep)
	return buf
}

func decodeV1(buf []byte, bo binary.ByteOrder) (*model.RasterHeader, error) {
	if len(buf) < v1HeaderLen {
		return nil, fmt.Errorf("%w: short v1 header", errMalformed)
	}
	h := &model.RasterHeader{}
	h.MediaClass = getString(buf, 0)
	h.MediaColor = getString(buf, 64)
	h.MediaType = getString(buf, 128)
	h.OutputType = getString(buf, 192)

	off := 256
	getU32 := func() uint32 { v := bo.Uint32(buf[off : off+4]); off += 4; return v }
	getBool := func() bool { return getU32() == 1 }

	h.AdvanceDistance = getU32()
	h.AdvanceMedia = getU32()
	h.Collate = getBool()
	h.CutMedia = getU32()
	h.Duplex = getBool()
	h.HWResolution[0] = getU32()
	h.HWResolution[1] = getU32()
	h.ImagingBoundingBox[0] = getU32()
	h.ImagingBoundingBox[1] = getU32()
	h.ImagingBoundingBox[2] = getU32()
	h.ImagingBoundingBox[3] = getU32()
	h.InsertSheet = getBool()
	h.Jog = getU32()
	h.LeadingEdge = getU32()
	h.Margins[0] = getU32()
	h.Margins[1] = getU32()
	h.ManualFeed = getBool()
	h.MediaPosition = getU32()
	h.MediaWeight = getU32()
	h.MirrorPrint = getBool()
	h.NegativePrint = getBool()
	h.NumCopies = getU32()
	h.Orientation = getU32()
	h.OutputFaceUp = getBool()
	h.PageSize[0] = getU32()
	h.PageSize[1] = getU32()
	h.Separations = getBool()
	h.TraySwitch = getBool()
	h.Tumble = getBool()
	h.CUPSWidth = getU32()
	h.CUPSHeight = getU32()
	h.CUPSMediaType = getU32()
	h.CUPSBitsPerColor = getU32()
	h.CUPSBitsPerPixel = getU32()
	h.CUPSBytesPerLine = getU32()
	h.CUPSColorOrder = model.ColorOrder(getU32())
	h.CUPSColorSpace = model.ColorSpace(getU32())
	h.CUPSCompression = model.Compression(getU32())
	h.CUPSRowCount = getU32()
	h.CUPSRowFeed = getU32()
	h.CUPSRowStep = getU32()
	return h, nil
}

// encodeV2Extension appends the 1,376-byte v2 extension block.
func encodeV2Extension(h *model.RasterHeader, bo binary.ByteOrder) []byte {
	buf := make([]byte, v2ExtensionLen)
	off := 0
	putU32 := func(v uint32) { bo.PutUint32(buf[off:off+4], v); off += 4 }
	putF32 := func(v float32) { bo.PutUint32(buf[off:off+4], mathFloat32bits(v)); off += 4 }

	putU32(h.CUPSNumColors)
	putF32(h.CUPSBorderlessScalingFactor)
	putF32(h.CUPSPageSize[0])
	putF32(h.CUPSPageSize[1])
	for _, v := range h.CUPSImagingBBox {
		putF32(v)
	}
	for _, v := range h.CUPSInteger {
		putU32(v)
	}
	for _, v := range h.CUPSReal {
		putF32(v)
	}
	for i := 0; i < 16; i++ {
		s := ""
		if i < len(h.CUPSString) {
			s = h.CUPSString[i]
		}
		putString(buf, off, s)
		off += stringFieldLen
	}
	putString(buf, off, h.CUPSMarkerType)
	off += stringFieldLen
	putString(buf, off, h.CUPSRenderingIntent)
	off += stringFieldLen
	putString(buf, off, h.CUPSPageSizeName)
	off += stringFieldLen
	return buf
}

func decodeV2Extension(h *model.RasterHeader, buf []byte, bo binary.ByteOrder) error {
	if len(buf) < v2ExtensionLen {
		return fmt.Errorf("%w: short v2 extension", errMalformed)
	}
	off := 0
	getU32 := func() uint32 { v := bo.Uint32(buf[off : off+4]); off += 4; return v }
	getF32 := func() float32 { v := mathFloat32frombits(bo.Uint32(buf[off : off+4])); off += 4; return v }

	h.CUPSNumColors = getU32()
	h.CUPSBorderlessScalingFactor = getF32()
	h.CUPSPageSize[0] = getF32()
	h.CUPSPageSize[1] = getF32()
	for i := range h.CUPSImagingBBox {
		h.CUPSImagingBBox[i] = getF32()
	}
	for i := range h.CUPSInteger {
		h.CUPSInteger[i] = getU32()
	}
	for i := range h.CUPSReal {
		h.CUPSReal[i] = getF32()
	}
	for i := 0; i < 16; i++ {
		h.CUPSString[i] = getString(buf, off)
		off += stringFieldLen
	}
	h.CUPSMarkerType = getString(buf, off)
	off += stringFieldLen
	h.CUPSRenderingIntent = getString(buf, off)
	off += stringFieldLen
	h.CUPSPageSizeName = getString(buf, off)
	off += stringFieldLen
	return nil
}

func writeFull(w io.Writer, h *model.RasterHeader, bo binary.ByteOrder) error {
	buf := append(encodeV1(h, bo), encodeV2Extension(h, bo)...)
	_, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", errIO, err)
	}
	return nil
}

func readFull(r io.Reader, bo binary.ByteOrder) (*model.RasterHeader, error) {
	buf := make([]byte, fullHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", errIO, err)
	}
	h, err := decodeV1(buf[:v1HeaderLen], bo)
	if err != nil {
		return nil, err
	}
	if err := decodeV2Extension(h, buf[v1HeaderLen:], bo); err != nil {
		return nil, err
	}
	return h, nil
}
