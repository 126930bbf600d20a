package model

import (
	"fmt"
	"os"
)

// MimeType enumerates the input/output document formats PREP and XFORM
// understand. Internals never compare raw content-type strings; parsing
// happens once at ParseMimeType.
type MimeType string

const (
	MimePDF        MimeType = "application/pdf"
	MimeJPEG       MimeType = "image/jpeg"
	MimePNG        MimeType = "image/png"
	MimePWGRaster  MimeType = "image/pwg-raster"
	MimeURF        MimeType = "image/urf"
	MimeText       MimeType = "text/plain"
	MimePCLm       MimeType = "application/PCLm"
	MimePostScript MimeType = "application/postscript"
	MimePCL        MimeType = "application/vnd.hp-PCL"
)

// ParseMimeType validates and normalizes a declared content type into the
// closed set of types the pipeline understands.
func ParseMimeType(s string) (MimeType, error) {
	switch MimeType(s) {
	case MimePDF, MimeJPEG, MimePNG, MimePWGRaster, MimeURF, MimeText,
		MimePCLm, MimePostScript, MimePCL:
		return MimeType(s), nil
	default:
		return "", fmt.Errorf("unsupported mime type %q", s)
	}
}

// InputDocument describes one submitted input file and, once converted,
// the intermediate single-page-per-impression PDF owned by PREP.
type InputDocument struct {
	Path                string
	DeclaredMimeType    MimeType
	IntermediatePDFPath string // set by PREP once converted; "" if conversion produced no output
	FirstPage           int    // 1-based, 0 means unset/all
	LastPage            int    // 1-based, 0 means unset/all
	PagesSelectedCount  int
}

// Close removes the owned intermediate PDF, if any. Safe to call multiple
// times; consolidates what the original implementation scattered across
// every exit path.
func (d *InputDocument) Close() error {
	if d.IntermediatePDFPath == "" {
		return nil
	}
	path := d.IntermediatePDFPath
	d.IntermediatePDFPath = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove intermediate pdf %s: %w", path, err)
	}
	return nil
}

// TempFile is an owning handle over a temporary filesystem path, deleted
// once on Close regardless of how many exit paths a caller has. It
// replaces the original's pattern of remembering a global temp-file name
// and deleting it at each bailout.
type TempFile struct {
	Path   string
	closed bool
}

// NewTempFile wraps an already-created temp path in an owning handle.
func NewTempFile(path string) *TempFile {
	return &TempFile{Path: path}
}

// Close deletes the temp file. Idempotent.
func (t *TempFile) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.Path == "" {
		return nil
	}
	if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
