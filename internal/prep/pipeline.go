package prep

import (
	"fmt"
	"os"

	pdfcpuapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdfcputypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/options"
)

// Prepare runs Document Preparation end to end: per-input conversion,
// multi-document assembly, imposition, and the appended error sheet,
// producing one intermediate PDF. Page ranges are not applied here (XFORM
// skips unselected pages), and no banner pages are added for job-sheets.
// It owns the temp files it creates along the way except the final
// returned one, which the caller is responsible for closing.
//
// Physical PDF mutation (merge, N-up/booklet tiling) is delegated to
// pdfcpu's file-level api, which already implements the Form-XObject
// tiling this component's own imposition planner (GridCells/BookletOrder)
// computes the shape for; internal/prep's own compose.go name-token
// remapper is exercised directly by its tests as the unit that models the
// resource-collision rule from spec §4.2, rather than re-deriving pdfcpu's
// own content-stream assembly — see DESIGN.md for the reasoning.
func Prepare(ch *diag.Channel, docs []*model.InputDocument, opts *model.PrintOptions) (*model.TempFile, *Diagnostics, error) {
	diags := &Diagnostics{}
	var perDoc []*model.TempFile
	defer func() {
		for _, t := range perDoc {
			t.Close()
		}
	}()

	for i, doc := range docs {
		converted, err := convertOne(doc, opts, i)
		if err != nil {
			diags.AddError(doc.Path, err)
			continue
		}
		if converted != nil {
			perDoc = append(perDoc, converted)
		}
		ch.Debug("prepared document %d (%s)", i, doc.DeclaredMimeType)
	}

	if len(perDoc) == 0 {
		return nil, diags, fmt.Errorf("no documents survived preparation")
	}

	merged, err := mergeDocuments(perDoc)
	if err != nil {
		return nil, diags, fmt.Errorf("merge prepared documents: %w", err)
	}

	imposed, err := imposeIfNeeded(merged, opts)
	if err != nil {
		merged.Close()
		return nil, diags, fmt.Errorf("impose pages: %w", err)
	}
	if imposed != merged {
		merged.Close()
	}

	if opts.JobSheets != "" && opts.JobSheets != "none" {
		ch.Debug("job-sheets=%s requested; no banner pages are added", opts.JobSheets)
	}
	if shouldAppendErrorSheet(opts, diags) {
		ch.Info("appending error sheet with %d diagnostic entries", len(diags.Entries()))
		sheet, err := RenderErrorSheet(diags, opts)
		if err != nil {
			imposed.Close()
			return nil, diags, fmt.Errorf("render error sheet: %w", err)
		}
		withSheet, err := mergeDocuments([]*model.TempFile{imposed, sheet})
		sheet.Close()
		imposed.Close()
		if err != nil {
			return nil, diags, fmt.Errorf("append error sheet: %w", err)
		}
		imposed = withSheet
	}

	return imposed, diags, nil
}

func shouldAppendErrorSheet(opts *model.PrintOptions, diags *Diagnostics) bool {
	switch opts.JobErrorSheet {
	case model.ErrorSheetAlways:
		return true
	case model.ErrorSheetOnError:
		return diags.HasErrors()
	default:
		return false
	}
}

func convertOne(doc *model.InputDocument, opts *model.PrintOptions, index int) (*model.TempFile, error) {
	switch doc.DeclaredMimeType {
	case model.MimePDF:
		password := os.Getenv(fmt.Sprintf("IPP_DOCUMENT_PASSWORD%d", index))
		return passthroughPDF(doc, password)
	case model.MimeJPEG, model.MimePNG:
		return ConvertImage(doc, opts)
	case model.MimeText:
		return ConvertText(doc, opts)
	default:
		return nil, fmt.Errorf("unsupported input mime type %q", doc.DeclaredMimeType)
	}
}

// passthroughPDF copies doc into a temp file owned by PREP, decrypting it
// first via pdfcpu when a password was supplied for this document's
// index; a failed decryption is a per-document prep error. With no
// IPP_DOCUMENT_PASSWORD[n] set the file is copied unchanged: whether it
// is encrypted is not checked here.
func passthroughPDF(doc *model.InputDocument, password string) (*model.TempFile, error) {
	out, err := os.CreateTemp("", "ipptransform-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	out.Close()

	if password != "" {
		conf := pdfcpumodel.NewDefaultConfiguration()
		conf.UserPW = password
		conf.OwnerPW = password
		if err := pdfcpuapi.DecryptFile(doc.Path, out.Name(), conf); err != nil {
			os.Remove(out.Name())
			return nil, fmt.Errorf("decrypt pdf %s: %w", doc.Path, err)
		}
		return model.NewTempFile(out.Name()), nil
	}

	data, err := os.ReadFile(doc.Path)
	if err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("read pdf %s: %w", doc.Path, err)
	}
	if err := os.WriteFile(out.Name(), data, 0o644); err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("copy pdf %s: %w", doc.Path, err)
	}
	return model.NewTempFile(out.Name()), nil
}

func mergeDocuments(docs []*model.TempFile) (*model.TempFile, error) {
	if len(docs) == 1 {
		// MergeCreateFile requires at least two inputs; a single document
		// is already the merged result.
		dup, err := duplicateTempFile(docs[0])
		if err != nil {
			return nil, err
		}
		return dup, nil
	}
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	out, err := os.CreateTemp("", "ipptransform-merged-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create merge output: %w", err)
	}
	out.Close()
	if err := pdfcpuapi.MergeCreateFile(paths, out.Name(), false, nil); err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("pdfcpu merge: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}

func duplicateTempFile(src *model.TempFile) (*model.TempFile, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	out, err := os.CreateTemp("", "ipptransform-single-*.pdf")
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return nil, err
	}
	return model.NewTempFile(out.Name()), nil
}

// imposeIfNeeded runs pdfcpu's N-up or booklet file-level tiling when
// requested, returning the input unchanged when number-up is 1 and no
// booklet imposition is requested.
func imposeIfNeeded(in *model.TempFile, opts *model.PrintOptions) (*model.TempFile, error) {
	numberUp := opts.NumberUp
	if numberUp == 0 {
		numberUp = 1
	}
	if opts.Imposition != model.ImpositionBooklet && numberUp == 1 {
		return in, nil
	}

	cols, rows, err := gridForOptions(opts, numberUp)
	if err != nil {
		return nil, err
	}

	nup := pdfcpumodel.DefaultNUpConfig()
	nup.Grid = &pdfcputypes.Dim{Width: float64(cols), Height: float64(rows)}

	out, err := os.CreateTemp("", "ipptransform-imposed-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create imposition output: %w", err)
	}
	out.Close()

	if opts.Imposition == model.ImpositionBooklet {
		err = pdfcpuapi.BookletFile([]string{in.Path}, out.Name(), nil, nup, nil)
	} else {
		err = pdfcpuapi.NUpFile([]string{in.Path}, out.Name(), nil, nup, nil)
	}
	if err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("pdfcpu imposition: %w", err)
	}
	return model.NewTempFile(out.Name()), nil
}

func gridForOptions(opts *model.PrintOptions, numberUp int) (cols, rows int, err error) {
	if opts.Imposition == model.ImpositionBooklet {
		return 1, 2, nil
	}
	return options.NumberUpGrid(numberUp)
}
