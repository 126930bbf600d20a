package prep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticsHasErrorsOnlyAfterAddError(t *testing.T) {
	d := &Diagnostics{}
	require.False(t, d.HasErrors())
	d.AddWarning("doc1", errors.New("missing font, used fallback"))
	require.False(t, d.HasErrors())
	d.AddError("doc2", errors.New("unsupported mime type"))
	require.True(t, d.HasErrors())
	require.Len(t, d.Entries(), 2)
}

func TestDiagnosticsEntryFormatting(t *testing.T) {
	d := &Diagnostics{}
	d.AddError("doc1", errors.New("boom"))
	require.Equal(t, "E doc1: boom", d.Entries()[0].Error())
}

func TestDiagnosticsErrorOrNilEmpty(t *testing.T) {
	d := &Diagnostics{}
	require.NoError(t, d.ErrorOrNil())
}
