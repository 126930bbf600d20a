// Package sink implements the Transport Sink: the last stage of the
// pipeline, responsible for delivering XFORM's output bytes to the
// device, whether that is a plain file/socket or a live IPP printer.
package sink

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/xerr"
)

// Sink is the byte-level destination XFORM writes its output to. It
// satisfies io.Writer so a Driver's StartJob can be handed one directly.
type Sink interface {
	io.Writer
	Close() error
}

// Open resolves a device URI into a Sink. "" or "-" (stdout),
// "file:///path", and "socket://host:port" are handled directly;
// "ipp://", "ipps://", "http://" and "https://" URIs are handed to
// OpenIPP; any other string is opened as a filesystem path.
func Open(deviceURI string, ch *diag.Channel) (Sink, error) {
	switch {
	case deviceURI == "" || deviceURI == "-":
		return &fileSink{w: os.Stdout, noClose: true}, nil
	case strings.HasPrefix(deviceURI, "file://"):
		return openFile(strings.TrimPrefix(deviceURI, "file://"))
	case strings.HasPrefix(deviceURI, "socket://"):
		return openSocket(strings.TrimPrefix(deviceURI, "socket://"))
	case strings.HasPrefix(deviceURI, "ipp://"), strings.HasPrefix(deviceURI, "ipps://"),
		strings.HasPrefix(deviceURI, "http://"), strings.HasPrefix(deviceURI, "https://"):
		return OpenIPP(deviceURI, ch)
	default:
		return openFile(deviceURI)
	}
}

// fileSink wraps a plain file/stream write target. It implements the
// "loop write until the full buffer is consumed, fail on anything but a
// transient interruption" byte-callback spec.md describes for sockets,
// which Go's io.Writer contract already guarantees for os.File and
// net.Conn — short writes without an error never happen for those, so
// this layer only needs to classify the error it gets back.
type fileSink struct {
	w       io.WriteCloser
	noClose bool
}

func openFile(path string) (Sink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", xerr.IoError, path, err)
	}
	return &fileSink{w: f}, nil
}

func openSocket(hostPort string) (Sink, error) {
	conn, err := net.Dial("tcp", hostPort)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", xerr.IoError, hostPort, err)
	}
	return &fileSink{w: conn}, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	return n, nil
}

func (s *fileSink) Close() error {
	if s.noClose {
		return nil
	}
	return s.w.Close()
}
