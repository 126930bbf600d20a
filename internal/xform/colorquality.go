package xform

import (
	"strings"

	"github.com/printworks/ipptransform/internal/model"
)

// ColorSpec names one entry of the pwg-raster-document-type-supported
// keyword list: a colorspace/bit-depth pair such as "srgb_8" or "black_1".
type ColorSpec struct {
	Name       string
	ColorSpace model.ColorSpace
	BitsPerColor uint32
}

var knownColorSpecs = map[string]ColorSpec{
	"adobe-rgb_16": {"adobe-rgb_16", model.ColorSpaceAdobeRGB, 16},
	"adobe-rgb_8":  {"adobe-rgb_8", model.ColorSpaceAdobeRGB, 8},
	"srgb_8":       {"srgb_8", model.ColorSpaceSRGB, 8},
	"cmyk_8":       {"cmyk_8", model.ColorSpaceCMYK, 8},
	"black_1":      {"black_1", model.ColorSpaceK, 1},
	"sgray_1":      {"sgray_1", model.ColorSpaceSGray, 1},
	"black_8":      {"black_8", model.ColorSpaceK, 8},
	"sgray_8":      {"sgray_8", model.ColorSpaceSGray, 8},
}

// preferenceOrder implements spec.md §4.3's color/quality resolution
// matrix: the ordered list of colorspace/depth keywords to try, by
// (requested color mode, requested quality). bi-level always forces
// draft+monochrome regardless of the requested quality.
func preferenceOrder(mode model.ColorMode, quality model.Quality) []string {
	if mode == model.ColorModeBiLevel {
		return []string{"black_1", "sgray_1"}
	}
	switch mode {
	case model.ColorModeColor, model.ColorModeAuto:
		if quality == model.QualityHigh {
			return []string{"adobe-rgb_16", "adobe-rgb_8", "srgb_8", "cmyk_8"}
		}
		return []string{"srgb_8", "cmyk_8"}
	case model.ColorModeMonochrome:
		if quality == model.QualityDraft {
			return []string{"black_1", "sgray_1"}
		}
		return []string{"black_8", "sgray_8"}
	default:
		return []string{"srgb_8"}
	}
}

// ResolveColor picks the first entry of the preference order for (mode,
// quality) that also appears in supported (the document's comma-separated
// pwg-raster-document-type-supported list). If nothing matches, it falls
// back to the first known entry of the preference order itself, and
// failing that to srgb_8.
func ResolveColor(mode model.ColorMode, quality model.Quality, supported string) ColorSpec {
	supportedSet := make(map[string]bool)
	for _, s := range strings.Split(supported, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			supportedSet[s] = true
		}
	}
	for _, name := range preferenceOrder(mode, quality) {
		if supportedSet[name] {
			if spec, ok := knownColorSpecs[name]; ok {
				return spec
			}
		}
	}
	for _, name := range preferenceOrder(mode, quality) {
		if spec, ok := knownColorSpecs[name]; ok {
			return spec
		}
	}
	return knownColorSpecs["srgb_8"]
}

// bayer64 is the 64x64 ordered-dither threshold matrix used to reduce
// continuous-tone pixels to 1 bit, per spec.md §4.3. It is generated
// recursively from the classic 2x2 Bayer kernel rather than hand-written,
// so every entry is reproducible from the recurrence instead of
// transcribed by hand.
var bayer64 = buildBayer(64)

// bayer2 is the base 2x2 Bayer matrix index order.
var bayer2 = [2][2]int{{0, 2}, {3, 1}}

func buildBayer(size int) [][]byte {
	// Recursively expand the 2x2 base matrix to size x size following the
	// standard Bayer construction: M(2n) built from 4 copies of 4*M(n),
	// offset by 0, 2, 3, 1 (in 2x2 base order).
	order := [][]int{{0}}
	for n := 1; n < size; n *= 2 {
		next := make([][]int, n*2)
		for i := range next {
			next[i] = make([]int, n*2)
		}
		for by := 0; by < 2; by++ {
			for bx := 0; bx < 2; bx++ {
				offset := bayer2[by][bx]
				for y := 0; y < n; y++ {
					for x := 0; x < n; x++ {
						next[by*n+y][bx*n+x] = order[y][x]*4 + offset
					}
				}
			}
		}
		order = next
	}
	out := make([][]byte, size)
	levels := size * size
	for y := 0; y < size; y++ {
		out[y] = make([]byte, size)
		for x := 0; x < size; x++ {
			out[y][x] = byte((order[y][x]*256 + 128) / levels)
		}
	}
	return out
}

// threshold returns the dither threshold for device pixel (x, y). Pixel
// values p <= threshold become ink (1 bit), per spec.md §4.3.
func threshold(x, y int) byte {
	return bayer64[y%64][x%64]
}

// biLevelThreshold is the uniform threshold used for the bi-level color
// mode, which does not use the Bayer matrix.
const biLevelThreshold = 127

// Dither1Bit packs a row of 8-bit gray samples into 1-bit-per-pixel MSB
// first, using the ordered-dither matrix at row y (or the uniform
// bi-level threshold when uniform is true).
func Dither1Bit(gray []byte, y int, uniform bool) []byte {
	width := len(gray)
	out := make([]byte, (width+7)/8)
	for x, p := range gray {
		t := threshold(x, y)
		if uniform {
			t = biLevelThreshold
		}
		if p <= t {
			out[x/8] |= 0x80 >> uint(x%8)
		}
	}
	return out
}
