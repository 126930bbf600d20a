package xform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/model"
)

func TestPCLRepeatRunLengthCountsIdenticalPixels(t *testing.T) {
	row := []byte{1, 1, 1, 1, 2, 2}
	assert.Equal(t, 4, pclRepeatRunLength(row, 0, 1))
	assert.Equal(t, 2, pclRepeatRunLength(row, 4, 1))
}

func TestPCLRepeatRunLengthIsPixelGranularForMultiByteBpp(t *testing.T) {
	// Three identical RGB pixels followed by a different one.
	row := []byte{10, 20, 30, 10, 20, 30, 10, 20, 30, 99, 99, 99}
	assert.Equal(t, 3, pclRepeatRunLength(row, 0, 3))
	assert.Equal(t, 1, pclRepeatRunLength(row, 9, 3))
}

func TestPCLPackBitsEncodeRepeatRun(t *testing.T) {
	row := []byte{5, 5, 5, 5, 5}
	out := pclPackBitsEncode(row, 1)
	require.Equal(t, []byte{byte(257 - 5), 5}, out)
}

func TestPCLPackBitsEncodeLiteralRun(t *testing.T) {
	row := []byte{1, 2, 3}
	out := pclPackBitsEncode(row, 1)
	require.Equal(t, []byte{2, 1, 2, 3}, out)
}

func TestPCLPackBitsEncodeNeverEmitsClearToEndOpcode(t *testing.T) {
	// A uniform tail that internal/raster's modified PackBits would
	// collapse into the 0x80 clear-to-end opcode must instead be an
	// ordinary repeat run here.
	row := make([]byte, 200)
	for i := range row {
		row[i] = 0xff
	}
	out := pclPackBitsEncode(row, 1)
	for _, b := range out {
		assert.NotEqual(t, byte(0x80), b)
	}
}

func TestPCLPackBitsEncodeRoundTripsLiteralAndRepeatMix(t *testing.T) {
	row := []byte{1, 2, 3, 3, 3, 3, 3, 9}
	out := pclPackBitsEncode(row, 1)

	var decoded []byte
	i := 0
	for i < len(out) {
		n := int(int8(out[i]))
		i++
		if n >= 0 {
			decoded = append(decoded, out[i:i+n+1]...)
			i += n + 1
		} else {
			count := 1 - n
			for j := 0; j < count; j++ {
				decoded = append(decoded, out[i])
			}
			i++
		}
	}
	assert.Equal(t, row, decoded)
}

func TestPCLPageSizeCodeLetterDefault(t *testing.T) {
	h := &model.RasterHeader{PageSize: [2]uint32{612, 792}}
	assert.Equal(t, 2, pclPageSizeCode(h))
}

func TestPCLPageSizeCodeA4(t *testing.T) {
	h := &model.RasterHeader{PageSize: [2]uint32{595, 842}}
	assert.Equal(t, 26, pclPageSizeCode(h))
}

func TestPCLPageSizeCodeLegal(t *testing.T) {
	h := &model.RasterHeader{PageSize: [2]uint32{612, 1008}}
	assert.Equal(t, 3, pclPageSizeCode(h))
}

func TestPCLDuplexCodeMapping(t *testing.T) {
	d := &PCLDriver{opts: &model.PrintOptions{Sides: model.SidesOneSided}}
	assert.Equal(t, 0, d.duplexCode())
	d.opts.Sides = model.SidesTwoSidedLongEdge
	assert.Equal(t, 1, d.duplexCode())
	d.opts.Sides = model.SidesTwoSidedShortEdge
	assert.Equal(t, 2, d.duplexCode())
}

func TestPCLLastPage(t *testing.T) {
	d := &PCLDriver{totalPage: 3, pageNum: 3}
	assert.True(t, d.lastPage())
	d.pageNum = 2
	assert.False(t, d.lastPage())
	d.totalPage = 0
	d.pageNum = 1
	assert.False(t, d.lastPage(), "unknown total page count never reports last")
}
