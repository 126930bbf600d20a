package prep

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/printworks/ipptransform/internal/model"
)

const bannerPointSize = 20.0

// BannerInfo carries the fields rendered onto a job-sheets banner.
type BannerInfo struct {
	Title   string
	User    string
	Pages   int
	Message string
}

// RenderBanner produces a 1- or 2-page (duplex) banner PDF at 20pt
// Courier, per spec §4.2. Grounded on the teacher's page-per-call fpdf
// assembly pattern in scanner.GeneratePDF.
func RenderBanner(info BannerInfo, opts *model.PrintOptions) (*model.TempFile, error) {
	mediaWMM := float64(opts.Media.WidthHundMM) / 100
	mediaHMM := float64(opts.Media.HeightHundMM) / 100

	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "B", bannerPointSize)

	pages := 1
	if opts.Sides != model.SidesOneSided {
		pages = 2
	}
	for i := 0; i < pages; i++ {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: mediaWMM, Ht: mediaHMM})
		y := mediaHMM / 3
		drawBannerLine(pdf, mediaWMM, &y, fmt.Sprintf("Title: %s", info.Title))
		drawBannerLine(pdf, mediaWMM, &y, fmt.Sprintf("User: %s", info.User))
		drawBannerLine(pdf, mediaWMM, &y, fmt.Sprintf("Pages: %d", info.Pages))
		if info.Message != "" {
			drawBannerLine(pdf, mediaWMM, &y, info.Message)
		}
	}

	out, err := os.CreateTemp("", "ipptransform-banner-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create banner temp pdf: %w", err)
	}
	defer out.Close()
	if err := pdf.Output(out); err != nil {
		return nil, fmt.Errorf("write banner pdf: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}

func drawBannerLine(pdf *fpdf.Fpdf, widthMM float64, y *float64, line string) {
	pdf.SetXY(0, *y)
	pdf.CellFormat(widthMM, bannerPointSize*25.4/72, line, "", 0, "C", false, 0, "")
	*y += bannerPointSize * 25.4 / 72 * 1.5
}

// RenderErrorSheet appends a listing of the accumulated diagnostics, for
// job-error-sheet.report handling.
func RenderErrorSheet(diags *Diagnostics, opts *model.PrintOptions) (*model.TempFile, error) {
	mediaWMM := float64(opts.Media.WidthHundMM) / 100
	mediaHMM := float64(opts.Media.HeightHundMM) / 100

	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetFont("Courier", "", 10)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: mediaWMM, Ht: mediaHMM})
	pdf.SetXY(5, 5)
	pdf.CellFormat(mediaWMM-10, 6, "Print job diagnostics", "", 2, "L", false, 0, "")
	for _, e := range diags.Entries() {
		pdf.SetX(5)
		pdf.CellFormat(mediaWMM-10, 5, e.Error(), "", 2, "L", false, 0, "")
	}

	out, err := os.CreateTemp("", "ipptransform-errsheet-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create error-sheet temp pdf: %w", err)
	}
	defer out.Close()
	if err := pdf.Output(out); err != nil {
		return nil, fmt.Errorf("write error-sheet pdf: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}
