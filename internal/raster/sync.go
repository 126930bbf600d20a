// Package raster implements the Raster Stream Codec (RSC): reading and
// writing a sequence of (header, pixel-rows) units in the CUPS v1/v2, PWG,
// and Apple raster wire variants, including the modified PackBits run-
// length compression shared by the compressed variants.
//
// The on-wire struct layout and sync-word table are grounded on
// original_source/cups/raster-stream.c and raster.h, and on the decode
// shape of other_examples' dominikh/go-cups raster-decode.go (struct-per-
// header-version parsing, one line at a time via a small lineRep/color
// state machine).
package raster

import "fmt"

// Variant identifies a raster stream's wire format family.
type Variant int

const (
	VariantV1               Variant = iota // CUPS v1, truncated header, uncompressed
	VariantV2                              // CUPS v2, full header, uncompressed
	VariantV2Compressed                    // CUPS v2, full header, PackBits rows
	VariantApple                           // Apple/URF, 32-byte packed header, PackBits rows
)

type syncWord struct {
	native  string
	swapped string
	variant Variant
}

var syncTable = []syncWord{
	{"RaSt", "tSaR", VariantV1},
	{"RaS3", "3SaR", VariantV2},
	{"RaS2", "2SaR", VariantV2Compressed},
	{"UNIR", "RINU", VariantApple},
}

// parseSync identifies the variant and byte order (swapped or not) for a
// 4-byte sync word read from the front of a stream.
func parseSync(b []byte) (v Variant, swapped bool, err error) {
	if len(b) != 4 {
		return 0, false, fmt.Errorf("raster: short sync word")
	}
	s := string(b)
	for _, e := range syncTable {
		if s == e.native {
			return e.variant, false, nil
		}
		if s == e.swapped {
			return e.variant, true, nil
		}
	}
	return 0, false, fmt.Errorf("%w: unrecognized sync word %q", errMalformed, s)
}

// syncFor returns the 4-byte sync word a writer emits for a variant. This
// port always emits the native (non-swapped) spelling; swapped spellings
// are recognized on read for interop with a foreign-endian peer, per
// spec.md §4.1's sync-word table.
func syncFor(v Variant) string {
	for _, e := range syncTable {
		if e.variant == v {
			return e.native
		}
	}
	return ""
}
