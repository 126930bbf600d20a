package sink

import (
	"fmt"
	"strings"

	"github.com/printworks/ipptransform/internal/xerr"
)

// AuthScheme names one of the IPP/HTTP challenge-response schemes the
// auth collaborator may be asked to satisfy.
type AuthScheme string

const (
	AuthBearer    AuthScheme = "Bearer"
	AuthBasic     AuthScheme = "Basic"
	AuthDigest    AuthScheme = "Digest"
	AuthNegotiate AuthScheme = "Negotiate"
	AuthPeerCred  AuthScheme = "PeerCred"
)

// schemeOrder is the fixed preference order spec.md §4.4 iterates on a
// 401 Unauthorized.
var schemeOrder = []AuthScheme{AuthBearer, AuthBasic, AuthDigest, AuthNegotiate, AuthPeerCred}

// maxAttemptsPerScheme bounds the retry budget per scheme before moving
// on, per spec.md §4.4.
const maxAttemptsPerScheme = 3

// Authenticator resolves a credential for a challenged request. The
// concrete schemes are an external collaborator's concern (out of scope
// per spec.md §1's non-goals); SINK only needs this seam to drive the
// retry loop and classify exhaustion.
type Authenticator interface {
	// Authorize returns the Authorization header value to send for
	// scheme, or an error if no credential is available for it.
	Authorize(scheme AuthScheme) (string, error)
}

// availableSchemes filters schemeOrder down to what the server actually
// offered in its WWW-Authenticate header(s), honoring the PeerCred gate:
// it is only ever offered when the connection is a local domain socket
// whose local uid matches configuredUID.
func availableSchemes(wwwAuthenticate []string, isLocalSocket bool, localUID, configuredUID int) []AuthScheme {
	offered := make(map[AuthScheme]bool, len(wwwAuthenticate))
	for _, h := range wwwAuthenticate {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		scheme := strings.SplitN(h, " ", 2)[0]
		offered[AuthScheme(scheme)] = true
	}
	var out []AuthScheme
	for _, s := range schemeOrder {
		if s == AuthPeerCred {
			if isLocalSocket && localUID == configuredUID {
				out = append(out, s)
			}
			continue
		}
		if offered[s] {
			out = append(out, s)
		}
	}
	return out
}

// authenticate retries each scheme in schemes up to maxAttemptsPerScheme
// times via attempt, which should return nil once the server accepts the
// credential. It returns AuthorizationCanceled once every scheme's
// budget is exhausted.
func authenticate(schemes []AuthScheme, auth Authenticator, attempt func(headerValue string) error) error {
	for _, scheme := range schemes {
		for i := 0; i < maxAttemptsPerScheme; i++ {
			headerValue, err := auth.Authorize(scheme)
			if err != nil {
				break
			}
			if err := attempt(headerValue); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: exhausted all offered auth schemes", xerr.AuthorizationCanceled)
}
