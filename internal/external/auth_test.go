package external

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/sink"
	"github.com/printworks/ipptransform/internal/xerr"
)

func TestEnvAuthenticatorAuthorizeBearer(t *testing.T) {
	a := &EnvAuthenticator{Token: "abc123"}
	header, err := a.Authorize(sink.AuthBearer)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", header)
}

func TestEnvAuthenticatorAuthorizeBasic(t *testing.T) {
	a := &EnvAuthenticator{User: "alice", Password: "hunter2"}
	header, err := a.Authorize(sink.AuthBasic)
	require.NoError(t, err)
	assert.Equal(t, "Basic YWxpY2U6aHVudGVyMg==", header)
}

func TestEnvAuthenticatorBearerFailsWithoutToken(t *testing.T) {
	a := &EnvAuthenticator{}
	_, err := a.Authorize(sink.AuthBearer)
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.AuthorizationCanceled))
}

func TestEnvAuthenticatorRejectsDigestAsUnsupported(t *testing.T) {
	a := &EnvAuthenticator{User: "alice", Password: "x"}
	_, err := a.Authorize(sink.AuthDigest)
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.UnsupportedOption))
}

func TestEnvAuthenticatorRejectsNegotiateAndPeerCred(t *testing.T) {
	a := &EnvAuthenticator{}
	_, err := a.Authorize(sink.AuthNegotiate)
	assert.True(t, xerr.Is(err, xerr.UnsupportedOption))
	_, err = a.Authorize(sink.AuthPeerCred)
	assert.True(t, xerr.Is(err, xerr.UnsupportedOption))
}
