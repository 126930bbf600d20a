package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsCollectsFlagsAndFiles(t *testing.T) {
	args, err := parseArgs([]string{
		"-d", "ipp://printer.local/ipp/print",
		"-m", "image/pwg-raster",
		"-o", "copies=2",
		"-o", "sides=two-sided-long-edge",
		"-r", "600x600dpi",
		"-s", "rotated",
		"-v",
		"doc.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "ipp://printer.local/ipp/print", args.deviceURI)
	assert.Equal(t, "image/pwg-raster", args.outputType)
	assert.True(t, args.verbose)
	assert.Equal(t, []string{"doc.pdf"}, args.files)
	assert.Contains(t, args.optionSet, "copies=2")
	assert.Contains(t, args.optionSet, "sides=two-sided-long-edge")
	assert.Contains(t, args.optionSet, "printer-resolution=600x600dpi")
	assert.Contains(t, args.optionSet, "sheet-back=rotated")
}

func TestParseArgsRequiresAtLeastOneFile(t *testing.T) {
	_, err := parseArgs([]string{"-d", "ipp://x/"})
	assert.Error(t, err)
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	_, err := parseArgs([]string{"--bogus", "doc.pdf"})
	assert.Error(t, err)
}

func TestParseArgsRejectsMissingFlagValue(t *testing.T) {
	_, err := parseArgs([]string{"-d"})
	assert.Error(t, err)
}

func TestParseArgsAllowsMultipleFiles(t *testing.T) {
	args, err := parseArgs([]string{"-m", "application/pdf", "a.pdf", "b.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, args.files)
}
