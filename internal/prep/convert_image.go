package prep

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/printworks/ipptransform/internal/model"
)

// pointsPerHundredthMM converts a hundredth-of-a-millimeter measurement
// (the unit IPP image shifts and media dimensions arrive in) to PDF points.
const pointsPerHundredthMM = 72.0 / 2540.0

// ConvertImage wraps a JPEG/PNG input in a one-page PDF sized to
// opts.Media, applying rotation and scaling per spec §4.2's image rules,
// and returns the path to the generated temp PDF. Grounded on
// ceelsoin-tspl-...'s image pipeline (disintegration/imaging for
// resize/rotate) and the teacher's GeneratePDF (fpdf page-per-image
// assembly via RegisterImageOptionsReader + ImageOptions).
func ConvertImage(doc *model.InputDocument, opts *model.PrintOptions) (*model.TempFile, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", doc.Path, err)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", doc.Path, err)
	}

	mediaWMM := float64(opts.Media.WidthHundMM) / 100
	mediaHMM := float64(opts.Media.HeightHundMM) / 100
	cropW := mediaWMM * 72 / 25.4
	cropH := mediaHMM * 72 / 25.4

	irot := resolveRotation(opts.ImageOrientation, src.Bounds().Dx(), src.Bounds().Dy(), cropW, cropH)
	rotated := rotateImage(src, irot)

	hasMargins := opts.Media.Margins != (model.Margins{})
	rb := rotated.Bounds()
	scale := resolveScale(opts.PrintScaling, float64(rb.Dx()), float64(rb.Dy()), cropW, cropH, hasMargins)

	drawWMM := float64(rb.Dx()) * scale * 25.4 / 72
	drawHMM := float64(rb.Dy()) * scale * 25.4 / 72

	x, y := resolvePosition(opts.ImagePositionX, opts.ImagePositionY, mediaWMM, mediaHMM, drawWMM, drawHMM)
	x += opts.ImageShiftFront.X * 25.4 / 72
	y += opts.ImageShiftFront.Y * 25.4 / 72

	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: mediaWMM, Ht: mediaHMM})

	var buf bytes.Buffer
	imgType := "JPEG"
	if format == "png" {
		imgType = "PNG"
	}
	if err := imaging.Encode(&buf, rotated, encoderFor(format)); err != nil {
		return nil, fmt.Errorf("re-encode image %s: %w", doc.Path, err)
	}
	pdf.RegisterImageOptionsReader("img0", fpdf.ImageOptions{ImageType: imgType}, &buf)
	pdf.ImageOptions("img0", x, y, drawWMM, drawHMM, false, fpdf.ImageOptions{}, 0, "")

	out, err := os.CreateTemp("", "ipptransform-img-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	defer out.Close()
	if err := pdf.Output(out); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}

func encoderFor(format string) imaging.Format {
	if format == "png" {
		return imaging.PNG
	}
	return imaging.JPEG
}

// resolveRotation computes irot per spec §4.2: an explicit orientation
// wins outright; "none" auto-rotates only when the image and crop box
// disagree on aspect ratio (portrait vs landscape).
func resolveRotation(requested string, imgW, imgH int, cropW, cropH float64) int {
	switch requested {
	case "90":
		return 90
	case "180":
		return 180
	case "270":
		return 270
	}
	imgLandscape := imgW > imgH
	cropLandscape := cropW > cropH
	if imgLandscape != cropLandscape {
		return 90
	}
	return 0
}

func rotateImage(img image.Image, irot int) image.Image {
	switch irot {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// resolveScale implements the five ScalingMode rules from spec §4.2.
// hasMargins reflects whether the media carries nonzero margins, which
// picks fit vs fill for the "auto" mode when the image exceeds the crop
// box.
func resolveScale(mode model.ScalingMode, imgW, imgH, cropW, cropH float64, hasMargins bool) float64 {
	fit := cropW / imgW
	if r := cropH / imgH; r < fit {
		fit = r
	}
	fill := cropW / imgW
	if r := cropH / imgH; r > fill {
		fill = r
	}
	exceeds := fit < 1 // the image doesn't fit the crop box at 1:1 scale

	switch mode {
	case model.ScalingFit:
		return fit
	case model.ScalingFill:
		return fill
	case model.ScalingAutoFit:
		if fit > 1 {
			return 1
		}
		return fit
	case model.ScalingAuto:
		if !exceeds {
			return 1
		}
		if hasMargins {
			return fill
		}
		return fit
	default: // none
		return 1
	}
}

// resolvePosition anchors the drawn image within the media rect per the
// {x,y}-image-position keywords, returning an offset in millimeters.
func resolvePosition(px, py model.ImagePosition, mediaW, mediaH, drawW, drawH float64) (x, y float64) {
	switch px {
	case model.ImagePositionCenter:
		x = (mediaW - drawW) / 2
	case model.ImagePositionTopRight:
		x = mediaW - drawW
	default:
		x = 0
	}
	switch py {
	case model.ImagePositionCenter:
		y = (mediaH - drawH) / 2
	case model.ImagePositionTopRight:
		y = 0
	default:
		y = mediaH - drawH
	}
	return x, y
}
