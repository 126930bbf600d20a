package archive

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/config"
	"github.com/printworks/ipptransform/internal/diag"
)

func TestRemoteFileNameIncludesJobIDAndExtension(t *testing.T) {
	name := remoteFileName("42", "pdf")
	assert.Contains(t, name, "job_42_")
	assert.Regexp(t, `^job_42_\d{8}_\d{6}\.pdf$`, name)
}

func TestMirrorIsNoOpWhenArchivingDisabled(t *testing.T) {
	cfg := config.FromEnvironment()
	cfg.ArchiveFTPEnabled = false

	ch := diag.New(io.Discard, diag.LevelError, false)
	err := Mirror(cfg, ch, "1", "pdf", []byte("data"))
	require.NoError(t, err)
}

func TestMirrorFailsFastWhenEnabledWithoutHost(t *testing.T) {
	cfg := config.FromEnvironment()
	cfg.ArchiveFTPEnabled = true
	cfg.ArchiveFTPHost = ""

	ch := diag.New(io.Discard, diag.LevelError, false)
	err := Mirror(cfg, ch, "1", "pdf", []byte("data"))
	assert.Error(t, err)
}
