package sink

import (
	"context"
	"strings"
	"time"

	"github.com/OpenPrinting/go-mfp/proto/ipp"

	"github.com/printworks/ipptransform/internal/diag"
)

// monitoredKeywords are the printer-description attribute name prefixes
// the status monitor watches for, per spec.md §4.4: marker levels, alert
// conditions, printer state reasons, and supply levels.
var monitoredKeywords = []string{"marker-", "printer-alert", "printer-state-reasons", "printer-supply"}

// StatusMonitor polls an IPP printer's Get-Printer-Attributes on the fixed
// Fibonacci cadence and reports changes through a diag.Channel, mirroring
// the background-goroutine-plus-cancel shape vens.Heartbeat uses for its
// keepalive loop.
type StatusMonitor struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartStatusMonitor begins polling sink for the watched attributes until
// ctx is canceled or Stop is called. last tracks the most recently seen
// value per attribute so only changes are reported.
func StartStatusMonitor(ctx context.Context, s *IPPSink, ch *diag.Channel) *StatusMonitor {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		backoffPolicy := newFibonacciBackOff()
		last := map[string]string{}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			attrs, err := s.pollAttributes()
			if err != nil {
				ch.Debug("status monitor: poll failed: %v", err)
			} else {
				reportChanges(ch, last, attrs)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoffPolicy.NextBackOff()):
			}
		}
	}()

	return &StatusMonitor{cancel: cancel, done: done}
}

// Stop cancels the polling loop and waits for it to exit.
func (m *StatusMonitor) Stop() {
	m.cancel()
	<-m.done
}

// pollAttributes issues Get-Printer-Attributes restricted to the watched
// keyword families and returns each attribute's values joined as a
// comma-separated string, keyed by attribute name.
func (s *IPPSink) pollAttributes() (map[string]string, error) {
	req := ipp.NewRequest(ipp.DefaultVersion, ipp.OpGetPrinterAttributes, 1)
	req.Operation.Add(ipp.MakeAttribute("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	req.Operation.Add(ipp.MakeAttribute("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	req.Operation.Add(ipp.MakeAttribute("printer-uri", ipp.TagURI, ipp.String(s.printerURI)))
	req.Operation.Add(ipp.MakeAttribute("requested-attributes", ipp.TagKeyword,
		ipp.String("marker-names"), ipp.String("marker-levels"), ipp.String("marker-colors"),
		ipp.String("printer-alert"), ipp.String("printer-state-reasons"),
		ipp.String("printer-supply"), ipp.String("printer-supply-description")))

	resp, err := s.roundTrip(req, nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, attr := range resp.Printer {
		if !isMonitored(attr.Name) {
			continue
		}
		parts := make([]string, 0, len(attr.Values))
		for _, v := range attr.Values {
			parts = append(parts, v.V.String())
		}
		out[attr.Name] = strings.Join(parts, ",")
	}
	return out, nil
}

func isMonitored(name string) bool {
	for _, prefix := range monitoredKeywords {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// reportChanges diffs attrs against last, emitting a STATE: line for
// printer-state-reasons and an ATTR: line for everything else that
// changed, then updates last in place.
func reportChanges(ch *diag.Channel, last map[string]string, attrs map[string]string) {
	for name, value := range attrs {
		if last[name] == value {
			continue
		}
		last[name] = value
		if name == "printer-state-reasons" {
			ch.State("%s", value)
		} else {
			ch.Attr("%s=%s", name, value)
		}
	}
}
