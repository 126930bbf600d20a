// Package discover resolves IPP/IPPS device URIs via DNS-SD, the Go
// equivalent of the original implementation's ippfind tool: browse for
// the "_ipp._tcp"/"_ipps._tcp" service types, resolve each advertisement's
// host/port/TXT record, and assemble a printer-uri the way ippfind's
// set_service_uri does.
package discover

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

// serviceTypes are the DNS-SD registration types ippfind browses for IPP
// printers; "_ipp._tcp" is always searched even when only IPPS devices are
// wanted, mirroring ippfind's implicit "_ipp._tcp" fallback when no
// explicit search term is given.
var serviceTypes = []string{"_ipp._tcp", "_ipps._tcp"}

// Printer describes one resolved IPP device advertisement.
type Printer struct {
	Name string
	URI  string
	TXT  map[string]string
}

// Find browses the local network for IPP/IPPS printers for timeout and
// returns every advertisement seen, deduplicated by resolved URI.
func Find(ctx context.Context, timeout time.Duration) ([]Printer, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("create dns-sd resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	var found []Printer
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			found = append(found, buildPrinter(entry))
		}
	}()

	for _, svc := range serviceTypes {
		if err := resolver.Browse(ctx, svc, "local.", entries); err != nil {
			return nil, fmt.Errorf("browse %s: %w", svc, err)
		}
	}

	<-ctx.Done()
	close(entries)
	<-done

	return dedupeByURI(found), nil
}

// buildPrinter assembles a printer-uri from a resolved service entry the
// way ippfind's set_service_uri does: scheme from the registration type,
// resource path from the TXT record's "rp" key (defaulting to "/"), host
// and port from the resolved address.
func buildPrinter(entry *zeroconf.ServiceEntry) Printer {
	txt := parseTXT(entry.Text)

	scheme := "ipp"
	if strings.HasPrefix(entry.Service, "_ipps.") {
		scheme = "ipps"
	}

	path := txt["rp"]
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	host := entry.HostName
	if host == "" && len(entry.AddrIPv4) > 0 {
		host = entry.AddrIPv4[0].String()
	}
	host = strings.TrimSuffix(host, ".")

	uri := scheme + "://" + net.JoinHostPort(host, strconv.Itoa(entry.Port)) + path

	return Printer{Name: entry.Instance, URI: uri, TXT: txt}
}

// parseTXT splits a DNS-SD TXT record's "key=value" entries into a map.
// Entries without an "=" are kept as boolean flags with an empty value.
func parseTXT(records []string) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		if i := strings.IndexByte(r, '='); i >= 0 {
			out[r[:i]] = r[i+1:]
		} else {
			out[r] = ""
		}
	}
	return out
}

// Resolve takes a "dnssd://instance-name._ipp._tcp.local/" device URI, the
// form ipptransform's -d flag accepts in place of a literal ipp(s):// URI,
// and resolves it to the advertised printer-uri by browsing for timeout.
// Only the service instance name before the first "._" is used for
// matching; the registration type and domain suffix are informational.
func Resolve(ctx context.Context, dnssdURI string, timeout time.Duration) (string, error) {
	instance, err := instanceNameFromDNSSDURI(dnssdURI)
	if err != nil {
		return "", err
	}

	printers, err := Find(ctx, timeout)
	if err != nil {
		return "", err
	}
	for _, p := range printers {
		if p.Name == instance {
			return p.URI, nil
		}
	}
	return "", fmt.Errorf("no dns-sd printer advertisement matching %q", instance)
}

// instanceNameFromDNSSDURI extracts the service instance name from a
// "dnssd://instance-name._ipp._tcp.local/" device URI.
func instanceNameFromDNSSDURI(dnssdURI string) (string, error) {
	instance := strings.TrimPrefix(dnssdURI, "dnssd://")
	instance = strings.TrimSuffix(instance, "/")
	if i := strings.Index(instance, "._"); i >= 0 {
		instance = instance[:i]
	}
	if instance == "" {
		return "", fmt.Errorf("dnssd uri %q has no service instance name", dnssdURI)
	}
	return instance, nil
}

// dedupeByURI keeps the first Printer seen for each distinct URI, since a
// device can answer on multiple interfaces.
func dedupeByURI(printers []Printer) []Printer {
	seen := make(map[string]bool, len(printers))
	out := make([]Printer, 0, len(printers))
	for _, p := range printers {
		if seen[p.URI] {
			continue
		}
		seen[p.URI] = true
		out = append(out, p)
	}
	return out
}
