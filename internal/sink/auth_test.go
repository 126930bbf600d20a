package sink

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/xerr"
)

func TestAvailableSchemesFiltersToOfferedAndPreservesOrder(t *testing.T) {
	offered := []string{"Digest realm=\"printers\"", "Basic realm=\"printers\""}
	got := availableSchemes(offered, false, -1, -1)
	assert.Equal(t, []AuthScheme{AuthBasic, AuthDigest}, got)
}

func TestAvailableSchemesIgnoresUnknownScheme(t *testing.T) {
	offered := []string{"Hawk realm=\"printers\""}
	got := availableSchemes(offered, false, -1, -1)
	assert.Empty(t, got)
}

func TestAvailableSchemesGatesPeerCredOnLocalSocketAndMatchingUID(t *testing.T) {
	got := availableSchemes(nil, true, 1000, 1000)
	assert.Equal(t, []AuthScheme{AuthPeerCred}, got)
}

func TestAvailableSchemesExcludesPeerCredWhenUIDsDiffer(t *testing.T) {
	got := availableSchemes(nil, true, 1000, 0)
	assert.Empty(t, got)
}

func TestAvailableSchemesExcludesPeerCredOverNetwork(t *testing.T) {
	got := availableSchemes(nil, false, 1000, 1000)
	assert.Empty(t, got)
}

func TestAvailableSchemesSkipsBlankHeaders(t *testing.T) {
	got := availableSchemes([]string{"", "  ", "Basic realm=\"x\""}, false, -1, -1)
	assert.Equal(t, []AuthScheme{AuthBasic}, got)
}

type stubAuthenticator struct {
	goodAfter int // not consulted: Authorize always returns a credential; the attempt callback decides acceptance
	calls     int
}

func (s *stubAuthenticator) Authorize(scheme AuthScheme) (string, error) {
	s.calls++
	return fmt.Sprintf("%s xyz", scheme), nil
}

func TestAuthenticateSucceedsOnFirstAcceptedAttempt(t *testing.T) {
	auth := &stubAuthenticator{}
	seen := 0
	err := authenticate([]AuthScheme{AuthBasic, AuthDigest}, auth, func(headerValue string) error {
		seen++
		assert.Equal(t, "Basic xyz", headerValue)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestAuthenticateExhaustsAllSchemesBeforeFailing(t *testing.T) {
	auth := &stubAuthenticator{}
	err := authenticate([]AuthScheme{AuthBasic, AuthDigest}, auth, func(string) error {
		return fmt.Errorf("rejected")
	})
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.AuthorizationCanceled))
	assert.Equal(t, maxAttemptsPerScheme*2, auth.calls)
}

func TestAuthenticateMovesToNextSchemeAfterBudgetExhausted(t *testing.T) {
	auth := &stubAuthenticator{}
	var triedSchemes []string
	err := authenticate([]AuthScheme{AuthBasic, AuthDigest}, auth, func(headerValue string) error {
		triedSchemes = append(triedSchemes, headerValue)
		if headerValue == "Digest xyz" {
			return nil
		}
		return fmt.Errorf("rejected")
	})
	require.NoError(t, err)
	assert.Len(t, triedSchemes, maxAttemptsPerScheme+1)
}
