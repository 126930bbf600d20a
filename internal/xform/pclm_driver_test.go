package xform

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/model"
)

func TestFlateCompressRoundTrips(t *testing.T) {
	original := bytes.Repeat([]byte("scanline data "), 50)
	compressed, err := flateCompress(original)
	require.NoError(t, err)

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestNewPCLmDriverClampsStripHeight(t *testing.T) {
	d := NewPCLmDriver(&model.PrintOptions{}, 8)
	assert.Equal(t, pclmStripHeightDefault, d.stripHeight)

	d = NewPCLmDriver(&model.PrintOptions{}, 500)
	assert.Equal(t, pclmStripHeightMax, d.stripHeight)

	d = NewPCLmDriver(&model.PrintOptions{}, 64)
	assert.Equal(t, 64, d.stripHeight)
}

func TestPCLmDriverReservesSharedPagesObjectBeforeAnyPage(t *testing.T) {
	d := NewPCLmDriver(&model.PrintOptions{}, 16)
	var buf bytes.Buffer
	require.NoError(t, d.StartJob(&buf))
	assert.Equal(t, 1, d.pagesObj)
	assert.Equal(t, 2, d.nextObjID(), "the next object written must not collide with the reserved Pages object")
}

func TestPCLmDriverEndToEndProducesParentReferencingPages(t *testing.T) {
	opts := &model.PrintOptions{PrintColorMode: model.ColorModeMonochrome}
	d := NewPCLmDriver(opts, 16)
	var buf bytes.Buffer
	require.NoError(t, d.StartJob(&buf))

	h := &model.RasterHeader{CUPSWidth: 8, CUPSHeight: 16, HWResolution: [2]uint32{72, 72}}
	require.NoError(t, d.StartPage(1, h))
	row := make([]byte, 8)
	for y := 0; y < 16; y++ {
		require.NoError(t, d.WriteLine(y, row))
	}
	require.NoError(t, d.EndPage())
	require.NoError(t, d.EndJob())

	out := buf.String()
	assert.Contains(t, out, "%PDF-1.7")
	assert.Contains(t, out, "/Type /Pages")
	assert.Contains(t, out, "/Type /Catalog")
	assert.Contains(t, out, "/Parent 1 0 R", "page must reference the reserved Pages object")
	assert.Contains(t, out, "startxref")
}
