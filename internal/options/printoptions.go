package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/printworks/ipptransform/internal/model"
)

// defaultOptions returns the resolved defaults PrintOptions starts from
// before any -o name=value override is applied.
func defaultOptions() model.PrintOptions {
	letter, _ := LookupMedia("na_letter_8.5x11in")
	return model.PrintOptions{
		Media:                letter,
		PrintScaling:         model.ScalingAuto,
		Sides:                model.SidesOneSided,
		SheetBack:            model.SheetBackNormal,
		OrientationRequested: model.OrientationPortrait,
		NumberUp:             1,
		Imposition:           model.ImpositionNone,
		MultipleDocHandling:  model.MDHSingleDocument,
		PageDelivery:         model.PageDeliveryForward,
		OutputBin:            model.OutputBinFaceDown,
		Copies:               1,
		Quality:              model.QualityNormal,
		PrintColorMode:       model.ColorModeAuto,
		JobErrorSheet:        model.ErrorSheetOnError,
	}
}

// ParsePrintOptions builds a PrintOptions from a set of "name=value" pairs,
// the form the ipptransform CLI's repeated -o flag and the CONTENT_TYPE/
// IPP job-attribute environment collect options in. Unknown option names
// are accepted and ignored, matching the original filter's tolerance for
// job-template attributes it doesn't act on directly.
func ParsePrintOptions(pairs []string) (*model.PrintOptions, error) {
	opts := defaultOptions()

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed option %q, expected name=value", pair)
		}
		if err := applyOption(&opts, name, value); err != nil {
			return nil, fmt.Errorf("option %s: %w", name, err)
		}
	}
	return &opts, nil
}

func applyOption(opts *model.PrintOptions, name, value string) error {
	switch name {
	case "media":
		m, err := LookupMedia(value)
		if err != nil {
			return err
		}
		opts.Media = m
	case "print-scaling":
		opts.PrintScaling = model.ScalingMode(value)
	case "sides":
		opts.Sides = model.Sides(value)
	case "sheet-back", "output-mode":
		opts.SheetBack = model.SheetBack(value)
	case "orientation-requested":
		opts.OrientationRequested = model.Orientation(value)
	case "number-up":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("not an integer: %v", err)
		}
		opts.NumberUp = n
	case "booklet", "imposition":
		if value == "fold-sheets-in-half" || value == "booklet" {
			opts.Imposition = model.ImpositionBooklet
		}
	case "multiple-document-handling":
		opts.MultipleDocHandling = model.MultipleDocumentHandling(value)
	case "page-delivery":
		opts.PageDelivery = model.PageDelivery(value)
	case "output-bin":
		opts.OutputBin = model.OutputBin(value)
	case "copies":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("not an integer: %v", err)
		}
		opts.Copies = n
	case "page-ranges":
		ranges, err := ParsePageRanges(value, 0)
		if err != nil {
			return err
		}
		opts.PageRanges = ranges
	case "print-quality":
		opts.Quality = qualityFromKeywordOrCode(value)
	case "print-color-mode":
		opts.PrintColorMode = model.ColorMode(value)
	case "printer-resolution":
		x, y, err := parseResolution(value)
		if err != nil {
			return err
		}
		opts.ResolutionX, opts.ResolutionY = x, y
	case "job-sheets":
		opts.JobSheets = value
	case "job-error-sheet-report", "job-error-sheet":
		opts.JobErrorSheet = model.ErrorSheetReport(value)
	case "separator-sheets":
		opts.SeparatorSheets = value
	case "separator-sheets-media":
		opts.SeparatorMedia = value
	case "orientation-requested-image", "image-orientation":
		opts.ImageOrientation = value
	}
	return nil
}

// qualityFromKeywordOrCode accepts either the keyword form ("draft",
// "normal", "high") or the IPP print-quality integer enum (3, 4, 5).
func qualityFromKeywordOrCode(value string) model.Quality {
	switch value {
	case "3":
		return model.QualityDraft
	case "5":
		return model.QualityHigh
	case "4":
		return model.QualityNormal
	default:
		return model.Quality(value)
	}
}

// parseResolution accepts "NNNdpi" or "XxYdpi" forms, per the
// printer-resolution attribute's "XXXxYYYdpi" convention.
func parseResolution(value string) (x, y int, err error) {
	value = strings.TrimSuffix(value, "dpi")
	if cx, cy, ok := strings.Cut(value, "x"); ok {
		x, err = strconv.Atoi(cx)
		if err != nil {
			return 0, 0, fmt.Errorf("bad resolution %q: %v", value, err)
		}
		y, err = strconv.Atoi(cy)
		if err != nil {
			return 0, 0, fmt.Errorf("bad resolution %q: %v", value, err)
		}
		return x, y, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, 0, fmt.Errorf("bad resolution %q: %v", value, err)
	}
	return n, n, nil
}
