package raster

import (
	"bytes"
	"testing"

	"github.com/printworks/ipptransform/internal/model"
)

func TestEncodeRow_AllWhiteClearToEnd(t *testing.T) {
	row := bytes.Repeat([]byte{0xff}, 600)
	got := encodeRow(row, 1, 0xff)
	want := []byte{0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeRow(all-white) = %x, want %x", got, want)
	}
}

func TestEncodeRow_AlternatingIsLiteral(t *testing.T) {
	row := make([]byte, 600)
	for i := range row {
		if i%2 == 0 {
			row[i] = 'A'
		} else {
			row[i] = 'B'
		}
	}
	got := encodeRow(row, 1, 0xff)
	// 600 bytes of alternating A/B pixels cannot form a clear-to-end
	// (not uniform) or a repeat run (never two identical consecutive
	// bytes), so it must be emitted as literal segments of at most 128
	// pixels each: ceil(600/128) = 5 segments.
	segments := 0
	i := 0
	for i < len(got) {
		n := got[i]
		if n > 127 {
			t.Fatalf("expected only literal segments, found repeat/clear opcode %d at %d", n, i)
		}
		count := int(n) + 1
		i += 1 + count
		segments++
	}
	if i != len(got) {
		t.Fatalf("segment walk ended at %d, encoded length is %d", i, len(got))
	}
	if segments != 5 {
		t.Errorf("got %d segments, want 5", segments)
	}

	// round trip through the decoder
	dec := newRowDecoder(bytes.NewReader(append([]byte{0}, got...)), 600, 1, 0xff)
	decoded, err := dec.readRow()
	if err != nil {
		t.Fatalf("readRow: %v", err)
	}
	if !bytes.Equal(decoded, row) {
		t.Errorf("round trip mismatch")
	}
}

func TestEncodeDecodeRepeatRun(t *testing.T) {
	row := bytes.Repeat([]byte{0x42}, 300) // longer than 128, needs two repeat segments
	encoded := encodeRow(row, 1, 0xff)
	dec := newRowDecoder(bytes.NewReader(append([]byte{0}, encoded...)), 300, 1, 0xff)
	decoded, err := dec.readRow()
	if err != nil {
		t.Fatalf("readRow: %v", err)
	}
	if !bytes.Equal(decoded, row) {
		t.Errorf("round trip mismatch for long repeat run")
	}
}

func TestEncodeDecodeMixedRow(t *testing.T) {
	row := append(append(bytes.Repeat([]byte{0x10}, 10), []byte{1, 2, 3, 4, 5}...), bytes.Repeat([]byte{0xff}, 50)...)
	encoded := encodeRow(row, 1, 0xff)
	dec := newRowDecoder(bytes.NewReader(append([]byte{0}, encoded...)), len(row), 1, 0xff)
	decoded, err := dec.readRow()
	if err != nil {
		t.Fatalf("readRow: %v", err)
	}
	if !bytes.Equal(decoded, row) {
		t.Errorf("mixed row round trip mismatch:\ngot  %v\nwant %v", decoded, row)
	}
}

func TestClearToEndFillColor(t *testing.T) {
	cases := []struct {
		cs    model.ColorSpace
		white bool
	}{
		{model.ColorSpaceW, true},
		{model.ColorSpaceRGB, true},
		{model.ColorSpaceSGray, true},
		{model.ColorSpaceSRGB, true},
		{model.ColorSpaceRGBW, true},
		{model.ColorSpaceAdobeRGB, true},
		{model.ColorSpaceK, false},
		{model.ColorSpaceCMYK, false},
		{model.ColorSpaceCIELab, false},
	}
	for _, c := range cases {
		if got := c.cs.ClearFillsWhite(); got != c.white {
			t.Errorf("ColorSpace(%d).ClearFillsWhite() = %v, want %v", c.cs, got, c.white)
		}
	}
}
