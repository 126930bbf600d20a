package model

// ColorSpace enumerates the CUPS/PWG colorspace codes carried in a raster
// header. Values match the wire encoding in cupsColorSpace.
type ColorSpace int

const (
	ColorSpaceW        ColorSpace = 0
	ColorSpaceRGB      ColorSpace = 1
	ColorSpaceRGBA     ColorSpace = 2
	ColorSpaceK        ColorSpace = 3
	ColorSpaceCMY      ColorSpace = 4
	ColorSpaceYMC      ColorSpace = 5
	ColorSpaceCMYK     ColorSpace = 6
	ColorSpaceYMCK     ColorSpace = 7
	ColorSpaceKCMY     ColorSpace = 8
	ColorSpaceKCMYcm   ColorSpace = 9
	ColorSpaceGMCK     ColorSpace = 10
	ColorSpaceGMCS     ColorSpace = 11
	ColorSpaceWHITE    ColorSpace = 12
	ColorSpaceGOLD     ColorSpace = 13
	ColorSpaceSILVER   ColorSpace = 14
	ColorSpaceCIEXYZ   ColorSpace = 15
	ColorSpaceCIELab   ColorSpace = 16
	ColorSpaceRGBW     ColorSpace = 17
	ColorSpaceSGray    ColorSpace = 18
	ColorSpaceSRGB     ColorSpace = 19
	ColorSpaceAdobeRGB ColorSpace = 20
	ColorSpaceICC1     ColorSpace = 32
	ColorSpaceICC2     ColorSpace = 33
	ColorSpaceICC3     ColorSpace = 34
	ColorSpaceICC4     ColorSpace = 35
	ColorSpaceICC5     ColorSpace = 36
	ColorSpaceICC6     ColorSpace = 37
	ColorSpaceICC7     ColorSpace = 38
	ColorSpaceICC8     ColorSpace = 39
	ColorSpaceICC9     ColorSpace = 40
	ColorSpaceICCA     ColorSpace = 41
	ColorSpaceICCB     ColorSpace = 42
	ColorSpaceICCC     ColorSpace = 43
	ColorSpaceICCD     ColorSpace = 44
	ColorSpaceICCE     ColorSpace = 45
	ColorSpaceICCF     ColorSpace = 46
	ColorSpaceDeviceN  ColorSpace = 48
)

// whiteFill is the set of colorspaces for which the 0x80
// clear-to-end PackBits opcode fills with 0xFF (white) rather than 0x00
// (black), per spec invariant 4.
var whiteFill = map[ColorSpace]bool{
	ColorSpaceW:        true,
	ColorSpaceRGB:      true,
	ColorSpaceSGray:    true,
	ColorSpaceSRGB:     true,
	ColorSpaceRGBW:     true,
	ColorSpaceAdobeRGB: true,
}

// ClearFillsWhite reports whether a clear-to-end segment fills with 0xFF
// for this colorspace (true) or 0x00 (false).
func (c ColorSpace) ClearFillsWhite() bool { return whiteFill[c] }

// ColorOrder enumerates chunky/banded/planar pixel layout.
type ColorOrder int

const (
	ColorOrderChunky ColorOrder = 0
	ColorOrderBanded ColorOrder = 1
	ColorOrderPlanar ColorOrder = 2
)

// Compression enumerates whether scanlines are PackBits-compressed.
type Compression int

const (
	CompressionNone Compression = 0
	CompressionRLE  Compression = 1
)

// RasterHeader is the fixed-schema page header carried at the start of
// every page in a raster stream. Field names and widths mirror the wire
// format in spec.md §3/§4.1 and original_source/cups/raster.h.
type RasterHeader struct {
	MediaClass  string // 64 bytes on the wire
	MediaColor  string
	MediaType   string
	OutputType  string

	AdvanceDistance uint32
	AdvanceMedia    uint32
	Collate         bool
	CutMedia        uint32
	Duplex          bool
	HWResolution    [2]uint32
	ImagingBoundingBox [4]uint32
	InsertSheet     bool
	Jog             uint32
	LeadingEdge     uint32
	Margins         [2]uint32
	ManualFeed      bool
	MediaPosition   uint32
	MediaWeight     uint32
	MirrorPrint     bool
	NegativePrint   bool
	NumCopies       uint32
	Orientation     uint32
	OutputFaceUp    bool
	PageSize        [2]uint32
	Separations     bool
	TraySwitch      bool
	Tumble          bool

	CUPSWidth        uint32
	CUPSHeight       uint32
	CUPSMediaType    uint32
	CUPSBitsPerColor uint32
	CUPSBitsPerPixel uint32
	CUPSBytesPerLine uint32
	CUPSColorOrder   ColorOrder
	CUPSColorSpace   ColorSpace
	CUPSCompression  Compression
	CUPSRowCount     uint32
	CUPSRowFeed      uint32
	CUPSRowStep      uint32

	// v2 extension fields, present only in the full (non-truncated) header.
	CUPSNumColors               uint32
	CUPSBorderlessScalingFactor float32
	CUPSPageSize                [2]float32
	CUPSImagingBBox             [4]float32
	CUPSInteger                 [16]uint32
	CUPSReal                    [16]float32
	CUPSString                  [16]string // 64 bytes each on the wire
	CUPSMarkerType              string
	CUPSRenderingIntent         string
	CUPSPageSizeName            string
}

// cupsInteger indices used by the transform pipeline, per spec.md §4.3.
const (
	IntTotalPageCount      = 0
	IntCrossFeedTransform  = 1
	IntFeedTransform       = 2
	IntImageBoxLeft        = 3
	IntImageBoxTop         = 4
	IntImageBoxRight       = 5
	IntImageBoxBottom      = 6
	IntAlternatePrimary    = 7
	IntPrintQuality        = 8
)

// AlternatePrimaryPWG is the fixed value written to cupsInteger[7] for PWG
// streams, per spec.md §4.1.
const AlternatePrimaryPWG uint32 = 0xffffff
