package sink

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/OpenPrinting/go-mfp/proto/ipp"

	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/xerr"
)

// connectTimeout and tlsHandshakeTimeout are the fixed SINK timeouts from
// spec.md §5.
const (
	connectTimeout      = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	expect100Timeout    = 1 * time.Second
	maxBusyRetries      = 9 // 1 initial attempt + 9 retries = 10 total, per spec.md §5
)

// IPPSink sends one job's document bytes to a live IPP printer, probing
// its supported operations/compression once up front and choosing
// between the Create-Job+Send-Document and one-shot Print-Job flows
// spec.md §4.4 describes.
//
// Message construction is delegated to go-mfp's proto/ipp, the same
// OpenPrinting library the teacher already depends on for eSCL (its
// proto/escl sibling package); IPP operation/attribute encoding follows
// that package's conventions.
type IPPSink struct {
	printerURI string
	client     *http.Client
	ch         *diag.Channel
	auth       Authenticator

	gzipSupported bool
	createJobOK   bool
	jobID         int32
	buf           bytes.Buffer
	closed        bool
}

// OpenIPP probes printerURI's capabilities and returns a Sink ready to
// stream one job's document data to it.
func OpenIPP(printerURI string, ch *diag.Channel) (*IPPSink, error) {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ExpectContinueTimeout: expect100Timeout,
		},
	}
	s := &IPPSink{printerURI: printerURI, client: client, ch: ch}
	if err := s.probe(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithAuthenticator attaches the auth collaborator used on a 401 reply.
func (s *IPPSink) WithAuthenticator(a Authenticator) *IPPSink {
	s.auth = a
	return s
}

// probe issues Get-Printer-Attributes for operations-supported and
// compression-supported, per spec.md §4.4.
func (s *IPPSink) probe() error {
	req := ipp.NewRequest(ipp.DefaultVersion, ipp.OpGetPrinterAttributes, 1)
	req.Operation.Add(ipp.MakeAttribute("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	req.Operation.Add(ipp.MakeAttribute("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	req.Operation.Add(ipp.MakeAttribute("printer-uri", ipp.TagURI, ipp.String(s.printerURI)))
	req.Operation.Add(ipp.MakeAttribute("requested-attributes", ipp.TagKeyword,
		ipp.String("operations-supported"), ipp.String("compression-supported")))

	resp, err := s.roundTrip(req, nil)
	if err != nil {
		return fmt.Errorf("%w: probe printer: %v", xerr.RemoteProtocol, err)
	}

	for _, attr := range resp.Printer {
		switch attr.Name {
		case "operations-supported":
			var createJob, sendDocument bool
			for _, v := range attr.Values {
				if op, ok := v.V.(ipp.Integer); ok {
					switch int(op) {
					case int(ipp.OpCreateJob):
						createJob = true
					case int(ipp.OpSendDocument):
						sendDocument = true
					}
				}
			}
			s.createJobOK = createJob && sendDocument
		case "compression-supported":
			for _, v := range attr.Values {
				if kw, ok := v.V.(ipp.Keyword); ok && string(kw) == "gzip" {
					s.gzipSupported = true
				}
			}
		}
	}
	return nil
}

// roundTrip posts msg (optionally followed by body) to printerURI and
// decodes the IPP response. It retries IPP's "server busy" status with
// the fixed Fibonacci cadence up to the capped attempt budget, and on a
// 401 challenge drives the Authenticator through each offered scheme
// before giving up, per spec.md §4.4. body must be re-readable from the
// start on every call, since both retry paths resend it.
func (s *IPPSink) roundTrip(msg *ipp.Message, body []byte) (*ipp.Message, error) {
	var encoded bytes.Buffer
	if err := msg.Encode(&encoded); err != nil {
		return nil, fmt.Errorf("%w: encode ipp message: %v", xerr.Internal, err)
	}
	preamble := encoded.Bytes()

	backoffPolicy := newFibonacciBackOff()
	authHeader := ""
	attempts := 0
	for {
		attempts++
		reader := io.MultiReader(bytes.NewReader(preamble), bytes.NewReader(body))
		resp, status, wwwAuth, err := s.postOnce(reader, len(body) > 0, authHeader)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusServiceUnavailable:
			if attempts > maxBusyRetries {
				return nil, fmt.Errorf("%w: printer still busy after %d attempts", xerr.RemoteBusy, attempts)
			}
			delay := backoffPolicy.NextBackOff()
			s.ch.Debug("printer busy, retrying in %s", delay)
			time.Sleep(delay)
			continue
		case status == http.StatusUnauthorized:
			if s.auth == nil {
				return nil, fmt.Errorf("%w: no authenticator configured", xerr.AuthorizationCanceled)
			}
			schemes := availableSchemes(wwwAuth, false, -1, -1)
			var lastHeader string
			err := authenticate(schemes, s.auth, func(headerValue string) error {
				lastHeader = headerValue
				reader := io.MultiReader(bytes.NewReader(preamble), bytes.NewReader(body))
				_, retryStatus, _, err := s.postOnce(reader, len(body) > 0, headerValue)
				if err != nil {
					return err
				}
				if retryStatus == http.StatusUnauthorized {
					return fmt.Errorf("%w: challenge rejected", xerr.AuthorizationCanceled)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			authHeader = lastHeader
			continue
		default:
			return resp, nil
		}
	}
}

// postOnce issues a single HTTP POST and returns the decoded IPP
// response (on 2xx/IPP-framed bodies), the raw HTTP status, and any
// WWW-Authenticate challenge header values.
func (s *IPPSink) postOnce(body io.Reader, chunked bool, authHeader string) (*ipp.Message, int, []string, error) {
	req, err := http.NewRequest(http.MethodPost, s.printerURI, body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %v", xerr.Internal, err)
	}
	req.Header.Set("Content-Type", "application/ipp")
	if chunked {
		req.TransferEncoding = []string{"chunked"}
		req.Header.Set("Expect", "100-continue")
	}
	if s.gzipSupported {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %v", xerr.IoError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, resp.Header.Values("WWW-Authenticate"), nil
	}

	decoded, err := ipp.Decode(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, nil, fmt.Errorf("%w: decode ipp response: %v", xerr.RemoteProtocol, err)
	}
	return decoded, resp.StatusCode, nil, nil
}

// Write implements io.Writer by buffering scanline/page bytes; the
// actual request is sent once Close flushes the job, since an IPP
// document body is one HTTP request, not a stream of independent writes.
func (s *IPPSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Close sends the buffered document via Create-Job+Send-Document when
// the printer advertised both operations, or a single Print-Job
// otherwise, per spec.md §4.4.
func (s *IPPSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	body := s.buf.Bytes()
	if s.gzipSupported {
		var gz bytes.Buffer
		w := gzip.NewWriter(&gz)
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("%w: gzip document: %v", xerr.Internal, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("%w: %v", xerr.Internal, err)
		}
		body = gz.Bytes()
	}

	if s.createJobOK {
		return s.sendViaCreateJob(body)
	}
	return s.sendViaPrintJob(body)
}

func (s *IPPSink) sendViaCreateJob(body []byte) error {
	create := ipp.NewRequest(ipp.DefaultVersion, ipp.OpCreateJob, 2)
	create.Operation.Add(ipp.MakeAttribute("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	create.Operation.Add(ipp.MakeAttribute("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	create.Operation.Add(ipp.MakeAttribute("printer-uri", ipp.TagURI, ipp.String(s.printerURI)))

	resp, err := s.roundTrip(create, nil)
	if err != nil {
		return fmt.Errorf("%w: create-job: %v", xerr.RemoteProtocol, err)
	}
	for _, attr := range resp.Job {
		if attr.Name == "job-id" {
			if v, ok := attr.Values[0].V.(ipp.Integer); ok {
				atomic.StoreInt32(&s.jobID, int32(v))
			}
		}
	}

	send := ipp.NewRequest(ipp.DefaultVersion, ipp.OpSendDocument, 3)
	send.Operation.Add(ipp.MakeAttribute("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	send.Operation.Add(ipp.MakeAttribute("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	send.Operation.Add(ipp.MakeAttribute("printer-uri", ipp.TagURI, ipp.String(s.printerURI)))
	send.Operation.Add(ipp.MakeAttribute("job-id", ipp.TagInteger, ipp.Integer(atomic.LoadInt32(&s.jobID))))
	send.Operation.Add(ipp.MakeAttribute("last-document", ipp.TagBoolean, ipp.Boolean(true)))

	if _, err := s.roundTrip(send, body); err != nil {
		return fmt.Errorf("%w: send-document: %v", xerr.RemoteProtocol, err)
	}
	return nil
}

func (s *IPPSink) sendViaPrintJob(body []byte) error {
	print := ipp.NewRequest(ipp.DefaultVersion, ipp.OpPrintJob, 2)
	print.Operation.Add(ipp.MakeAttribute("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	print.Operation.Add(ipp.MakeAttribute("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	print.Operation.Add(ipp.MakeAttribute("printer-uri", ipp.TagURI, ipp.String(s.printerURI)))

	if _, err := s.roundTrip(print, body); err != nil {
		return fmt.Errorf("%w: print-job: %v", xerr.RemoteProtocol, err)
	}
	return nil
}
