// Package external hosts thin stand-ins for the collaborators spec.md
// treats as outside the core: concrete auth-scheme handling, language
// catalogs, and the other CUPS high-level surface the pipeline only
// consumes through a narrow interface. Nothing here implements a full
// protocol; each type exists to satisfy the seam the core defines
// (sink.Authenticator) with just enough behavior to exercise it.
package external

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/printworks/ipptransform/internal/sink"
	"github.com/printworks/ipptransform/internal/xerr"
)

// EnvAuthenticator resolves credentials from the process environment. It
// satisfies sink.Authenticator for the two stateless schemes a client can
// answer without a prior handshake (Basic, Bearer); Digest needs the
// server's nonce/realm from the challenge itself, and Negotiate/PeerCred
// need a Kerberos ticket cache or a local socket's SO_PEERCRED credential,
// none of which this package owns — spec.md scopes "auth schemes" as an
// external collaborator, so those report UnsupportedOption rather than
// fake a protocol exchange.
type EnvAuthenticator struct {
	User     string
	Password string
	Token    string
}

// NewEnvAuthenticator reads IPPTRANSFORM_USER, IPPTRANSFORM_PASSWORD, and
// IPPTRANSFORM_BEARER_TOKEN.
func NewEnvAuthenticator() *EnvAuthenticator {
	return &EnvAuthenticator{
		User:     os.Getenv("IPPTRANSFORM_USER"),
		Password: os.Getenv("IPPTRANSFORM_PASSWORD"),
		Token:    os.Getenv("IPPTRANSFORM_BEARER_TOKEN"),
	}
}

// Authorize implements sink.Authenticator.
func (a *EnvAuthenticator) Authorize(scheme sink.AuthScheme) (string, error) {
	switch scheme {
	case sink.AuthBearer:
		if a.Token == "" {
			return "", fmt.Errorf("%w: no bearer token configured", xerr.AuthorizationCanceled)
		}
		return "Bearer " + a.Token, nil
	case sink.AuthBasic:
		if a.User == "" {
			return "", fmt.Errorf("%w: no credentials configured", xerr.AuthorizationCanceled)
		}
		creds := base64.StdEncoding.EncodeToString([]byte(a.User + ":" + a.Password))
		return "Basic " + creds, nil
	default:
		return "", fmt.Errorf("%w: %s authentication is not handled by this client", xerr.UnsupportedOption, scheme)
	}
}
