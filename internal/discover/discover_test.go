package discover

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
)

func TestParseTXTSplitsKeyValuePairs(t *testing.T) {
	got := parseTXT([]string{"rp=ipp/print", "txtvers=1", "adminurl=http://x/"})
	assert.Equal(t, "ipp/print", got["rp"])
	assert.Equal(t, "1", got["txtvers"])
	assert.Equal(t, "http://x/", got["adminurl"])
}

func TestParseTXTTreatsBareKeyAsEmptyFlag(t *testing.T) {
	got := parseTXT([]string{"Duplex"})
	val, ok := got["Duplex"]
	assert.True(t, ok)
	assert.Equal(t, "", val)
}

func TestBuildPrinterUsesRPForResourcePath(t *testing.T) {
	entry := &zeroconf.ServiceEntry{}
	entry.Instance = "Office Printer"
	entry.Service = "_ipp._tcp"
	entry.HostName = "printer.local."
	entry.Port = 631
	entry.Text = []string{"rp=ipp/print"}

	p := buildPrinter(entry)
	assert.Equal(t, "ipp://printer.local:631/ipp/print", p.URI)
	assert.Equal(t, "Office Printer", p.Name)
}

func TestBuildPrinterDefaultsResourcePathToRoot(t *testing.T) {
	entry := &zeroconf.ServiceEntry{}
	entry.Service = "_ipps._tcp"
	entry.HostName = "secure.local."
	entry.Port = 443
	entry.Text = nil

	p := buildPrinter(entry)
	assert.Equal(t, "ipps://secure.local:443/", p.URI)
}

func TestBuildPrinterFallsBackToIPv4WhenHostnameMissing(t *testing.T) {
	entry := &zeroconf.ServiceEntry{}
	entry.Service = "_ipp._tcp"
	entry.Port = 631
	entry.AddrIPv4 = []net.IP{net.ParseIP("192.0.2.5")}

	p := buildPrinter(entry)
	assert.Equal(t, "ipp://192.0.2.5:631/", p.URI)
}

func TestInstanceNameFromDNSSDURIStripsServiceTypeAndDomain(t *testing.T) {
	name, err := instanceNameFromDNSSDURI("dnssd://Office Printer._ipp._tcp.local/")
	assert.NoError(t, err)
	assert.Equal(t, "Office Printer", name)
}

func TestInstanceNameFromDNSSDURIRejectsEmptyName(t *testing.T) {
	_, err := instanceNameFromDNSSDURI("dnssd://")
	assert.Error(t, err)
}

func TestDedupeByURIKeepsFirstOccurrence(t *testing.T) {
	in := []Printer{
		{Name: "a", URI: "ipp://x/"},
		{Name: "b", URI: "ipp://x/"},
		{Name: "c", URI: "ipp://y/"},
	}
	out := dedupeByURI(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "c", out[1].Name)
}
