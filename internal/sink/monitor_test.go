package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/printworks/ipptransform/internal/diag"
)

func TestIsMonitoredMatchesWatchedPrefixes(t *testing.T) {
	assert.True(t, isMonitored("marker-levels"))
	assert.True(t, isMonitored("marker-names"))
	assert.True(t, isMonitored("printer-alert"))
	assert.True(t, isMonitored("printer-state-reasons"))
	assert.True(t, isMonitored("printer-supply"))
	assert.False(t, isMonitored("printer-uri-supported"))
	assert.False(t, isMonitored("copies-default"))
}

func TestReportChangesEmitsOnFirstSighting(t *testing.T) {
	var buf bytes.Buffer
	ch := diag.New(&buf, diag.LevelInfo, false)
	last := map[string]string{}

	reportChanges(ch, last, map[string]string{"marker-levels": "42"})

	assert.Contains(t, buf.String(), "ATTR: marker-levels=42")
	assert.Equal(t, "42", last["marker-levels"])
}

func TestReportChangesSkipsUnchangedValues(t *testing.T) {
	var buf bytes.Buffer
	ch := diag.New(&buf, diag.LevelInfo, false)
	last := map[string]string{"marker-levels": "42"}

	reportChanges(ch, last, map[string]string{"marker-levels": "42"})

	assert.Empty(t, buf.String())
}

func TestReportChangesUsesStateLineForStateReasons(t *testing.T) {
	var buf bytes.Buffer
	ch := diag.New(&buf, diag.LevelInfo, false)
	last := map[string]string{}

	reportChanges(ch, last, map[string]string{"printer-state-reasons": "media-empty"})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "STATE:"))
	assert.Contains(t, out, "media-empty")
}

func TestReportChangesUpdatesLastOnChange(t *testing.T) {
	var buf bytes.Buffer
	ch := diag.New(&buf, diag.LevelInfo, false)
	last := map[string]string{"marker-levels": "10"}

	reportChanges(ch, last, map[string]string{"marker-levels": "20"})

	assert.Equal(t, "20", last["marker-levels"])
	assert.Contains(t, buf.String(), "marker-levels=20")
}
