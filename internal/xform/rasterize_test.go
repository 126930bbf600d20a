package xform

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePPMParsesBinaryHeader(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("P6\n2 2\n255\n")
	pix := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}
	buf.Write(pix)

	page, err := decodePPM(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Width)
	assert.Equal(t, 2, page.Height)
	assert.Equal(t, pix, page.Pix)
}

func TestDecodePPMRejectsNonP6Magic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("P3\n2 2\n255\n")
	_, err := decodePPM(bufio.NewReader(&buf))
	assert.Error(t, err)
}

func TestGrayAtComputesLumaWeightedAverage(t *testing.T) {
	page := &RenderedPage{Width: 1, Height: 1, Pix: []byte{255, 0, 0}}
	assert.Equal(t, byte(76), page.GrayAt(0, 0))
}

func TestGrayAtReadsGrayBufferDirectly(t *testing.T) {
	page := &RenderedPage{Width: 2, Height: 1, Gray: true, Pix: []byte{10, 20}}
	assert.Equal(t, byte(10), page.GrayAt(0, 0))
	assert.Equal(t, byte(20), page.GrayAt(1, 0))
}
