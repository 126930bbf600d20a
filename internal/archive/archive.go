// Package archive implements the optional FTP job-mirroring sink: a copy
// of a finished job's document bytes pushed to an FTP server after
// delivery to the device, gated by IPPTRANSFORM_ARCHIVE_FTP. This has no
// counterpart in the IPP/CUPS transform pipeline proper; it is the same
// shape as a CUPS backend's post-job archival hook, adapted from the
// teacher's scan-to-FTP save path.
package archive

import (
	"bytes"
	"fmt"
	"net"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/printworks/ipptransform/internal/config"
	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/xerr"
)

const dialTimeout = 10 * time.Second

// Mirror uploads data to cfg's configured FTP server under a timestamped
// name built from jobID and ext, when archiving is enabled. It is a
// no-op returning nil when ArchiveFTPEnabled is false, so callers can
// invoke it unconditionally after a successful delivery.
func Mirror(cfg *config.ClientConfig, ch *diag.Channel, jobID string, ext string, data []byte) error {
	if !cfg.ArchiveFTPEnabled {
		return nil
	}
	if cfg.ArchiveFTPHost == "" {
		return fmt.Errorf("%w: IPPTRANSFORM_ARCHIVE_FTP set but no host configured", xerr.BadInput)
	}

	host := cfg.ArchiveFTPHost
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return fmt.Errorf("%w: ftp connect %s: %v", xerr.IoError, host, err)
	}
	defer conn.Quit()

	user := cfg.ArchiveFTPUser
	if user == "" {
		user = "anonymous"
	}
	if err := conn.Login(user, cfg.ArchiveFTPPassword); err != nil {
		return fmt.Errorf("%w: ftp login: %v", xerr.AuthorizationCanceled, err)
	}

	remoteName := remoteFileName(jobID, ext)
	if err := conn.Stor(remoteName, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: ftp upload %s: %v", xerr.IoError, remoteName, err)
	}

	ch.Info("archived job %s to ftp://%s/%s", jobID, host, remoteName)
	return nil
}

// remoteFileName builds a collision-resistant archive name: the job
// identifier plus a second-resolution timestamp, since two jobs can share
// a printer-assigned job-id across separate queue instances.
func remoteFileName(jobID, ext string) string {
	stamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("job_%s_%s.%s", jobID, stamp, ext)
}
