// Package prep implements Document Preparation: converting each submitted
// input into pages of one intermediate PDF, applying imposition and the
// job-error-sheet listing. It also provides the sheet-back transform and
// banner helpers; Prepare itself does not apply them.
package prep

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// entryKind tags a Diagnostics entry as a fatal error ("E") or an
// informational warning ("I"), matching the filter-log vocabulary the
// diagnostic channel emits at job end.
type entryKind byte

const (
	kindError   entryKind = 'E'
	kindWarning entryKind = 'I'
)

type entry struct {
	kind entryKind
	doc  string
	err  error
}

func (e entry) Error() string {
	return fmt.Sprintf("%c %s: %v", e.kind, e.doc, e.err)
}

// Diagnostics accumulates non-fatal prep issues without aborting the
// document loop, per spec §4.2's failure semantics. A fatal error is
// still returned directly by the function that hit it; Diagnostics only
// carries the informational trail consumed at job end.
type Diagnostics struct {
	merr *multierror.Error
}

// AddError records a fatal-for-this-document issue that PREP recovered
// from (e.g. one input in a multi-document job could not be prepared).
func (d *Diagnostics) AddError(doc string, err error) {
	d.merr = multierror.Append(d.merr, entry{kind: kindError, doc: doc, err: err})
}

// AddWarning records a non-fatal issue, such as a missing optional
// resource or an unrecognized option value that fell back to a default.
func (d *Diagnostics) AddWarning(doc string, err error) {
	d.merr = multierror.Append(d.merr, entry{kind: kindWarning, doc: doc, err: err})
}

// Entries returns every recorded diagnostic in the order it was added.
func (d *Diagnostics) Entries() []error {
	if d.merr == nil {
		return nil
	}
	return d.merr.Errors
}

// HasErrors reports whether any entry was recorded via AddError.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.Entries() {
		if en, ok := e.(entry); ok && en.kind == kindError {
			return true
		}
	}
	return false
}

// ErrorOrNil returns the accumulated diagnostics as a single error value
// (nil if none were recorded), for callers that want go-multierror's
// default multi-line formatting.
func (d *Diagnostics) ErrorOrNil() error {
	if d.merr == nil {
		return nil
	}
	return d.merr.ErrorOrNil()
}
