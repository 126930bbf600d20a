package prep

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/printworks/ipptransform/internal/model"
)

const (
	textPointSize = 10.0
	textLeading   = 12.0
	textTabStop   = 8
	charWidthFrac = 0.6 // monospace advance width as a fraction of point size
)

// ConvertText renders a plain-text input 10pt monospaced with 12pt leading
// and 8-column tab stops, per spec §4.2, returning the generated temp PDF.
// Grounded on the teacher's GeneratePDF for the fpdf page-assembly shape;
// the font itself falls back to fpdf's built-in Courier since no bundled
// Noto Sans Mono ships with this module.
func ConvertText(doc *model.InputDocument, opts *model.PrintOptions) (*model.TempFile, error) {
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("open text input %s: %w", doc.Path, err)
	}
	defer f.Close()

	mediaWMM := float64(opts.Media.WidthHundMM) / 100
	mediaHMM := float64(opts.Media.HeightHundMM) / 100
	cropWPt := mediaWMM * 72 / 25.4
	cropHPt := mediaHMM * 72 / 25.4

	cols := int(cropWPt / (charWidthFrac * textPointSize))
	lines := int(cropHPt / textLeading)
	if cols < 1 {
		cols = 1
	}
	if lines < 1 {
		lines = 1
	}

	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", textPointSize)
	pdf.SetMargins(0, 0, 0)

	pageLines := wrapAndPaginate(f, cols, lines)
	leadingMM := textLeading * 25.4 / 72
	for pageNum, page := range pageLines {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: mediaWMM, Ht: mediaHMM})
		shift := opts.ImageShiftFront
		if pageNum%2 == 1 {
			shift = opts.ImageShiftBack
		}
		x0 := shift.X * 25.4 / 72
		y := shift.Y*25.4/72 + leadingMM
		for _, line := range page {
			pdf.SetXY(x0, y)
			pdf.CellFormat(cropWPt*25.4/72, leadingMM, line, "", 0, "L", false, 0, "")
			y += leadingMM
		}
	}
	if len(pageLines) == 0 {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: mediaWMM, Ht: mediaHMM})
	}

	out, err := os.CreateTemp("", "ipptransform-text-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	defer out.Close()
	if err := pdf.Output(out); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}

// wrapAndPaginate reads lines from r, expands tabs to textTabStop columns,
// hard-wraps at cols, and groups the result into pages of lines rows each.
func wrapAndPaginate(r *os.File, cols, linesPerPage int) [][]string {
	var all []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		expanded := expandTabs(sc.Text(), textTabStop)
		for len(expanded) > cols {
			all = append(all, expanded[:cols])
			expanded = expanded[cols:]
		}
		all = append(all, expanded)
	}

	var pages [][]string
	for i := 0; i < len(all); i += linesPerPage {
		end := i + linesPerPage
		if end > len(all) {
			end = len(all)
		}
		pages = append(pages, all[i:end])
	}
	return pages
}

func expandTabs(s string, tabStop int) string {
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabStop - col%tabStop
			sb.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
