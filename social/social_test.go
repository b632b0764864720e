package social_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/credentials/storefakes"
	"github.com/jrsteele09/go-auth-client/gate"
	"github.com/jrsteele09/go-auth-client/social"
)

func newFlow(t *testing.T, cfg social.Config) (*social.Flow, *storefakes.FakeStore, *gate.ReturnPathStore) {
	t.Helper()
	creds := storefakes.NewFakeStore()
	paths := gate.NewReturnPathStore()
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:5000/api"
	}
	flow, err := social.NewFlow(cfg, creds, paths)
	require.NoError(t, err)
	return flow, creds, paths
}

func TestBeginLoginBrokerStyle(t *testing.T) {
	flow, _, paths := newFlow(t, social.Config{LandingPath: "/dashboard"})

	authURL, err := flow.BeginLogin(social.ProviderGoogle, "/settings")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/api/auth/google", authURL)

	// The requested path is parked for the round trip.
	require.Equal(t, "/settings", paths.Consume("/dashboard"))
}

func TestBeginLoginDirectProvider(t *testing.T) {
	flow, _, _ := newFlow(t, social.Config{
		GoogleClientID: "client-123",
		CallbackURL:    "http://localhost:3000/auth/social-callback",
		LandingPath:    "/dashboard",
	})

	authURL, err := flow.BeginLogin(social.ProviderGoogle, "/settings")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", parsed.Host)
	require.Equal(t, "client-123", parsed.Query().Get("client_id"))
	require.NotEmpty(t, parsed.Query().Get("state"))
}

func TestBeginLoginUnknownProvider(t *testing.T) {
	flow, _, _ := newFlow(t, social.Config{})
	_, err := flow.BeginLogin(social.Provider("myspace"), "/")
	require.Error(t, err)
}

func TestHandleCallbackStoresTokenAndReturnsPath(t *testing.T) {
	flow, creds, paths := newFlow(t, social.Config{LandingPath: "/dashboard"})
	paths.Set("/settings")

	redirect, err := flow.HandleCallback(url.Values{"token": {"social-token"}})
	require.NoError(t, err)
	require.Equal(t, "/settings", redirect)

	token, ok := creds.Token()
	require.True(t, ok)
	require.Equal(t, "social-token", token)
}

func TestHandleCallbackDefaultsToLanding(t *testing.T) {
	flow, _, _ := newFlow(t, social.Config{LandingPath: "/dashboard"})

	redirect, err := flow.HandleCallback(url.Values{"token": {"social-token"}})
	require.NoError(t, err)
	require.Equal(t, "/dashboard", redirect)
}

func TestHandleCallbackWithoutToken(t *testing.T) {
	flow, creds, _ := newFlow(t, social.Config{})

	_, err := flow.HandleCallback(url.Values{})
	require.EqualError(t, err, social.CallbackFallback)

	_, ok := creds.Token()
	require.False(t, ok)
}

func TestHandleCallbackRejectsUnknownState(t *testing.T) {
	flow, creds, _ := newFlow(t, social.Config{
		GoogleClientID: "client-123",
		CallbackURL:    "http://localhost:3000/cb",
	})

	_, err := flow.HandleCallback(url.Values{"token": {"tok"}, "state": {"forged"}})
	require.EqualError(t, err, social.CallbackFallback)

	_, ok := creds.Token()
	require.False(t, ok)
}

func TestRoundTripStateAccepted(t *testing.T) {
	flow, creds, _ := newFlow(t, social.Config{
		GoogleClientID: "client-123",
		CallbackURL:    "http://localhost:3000/cb",
		LandingPath:    "/dashboard",
	})

	authURL, err := flow.BeginLogin(social.ProviderGoogle, "/settings")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")

	redirect, err := flow.HandleCallback(url.Values{"token": {"tok"}, "state": {state}})
	require.NoError(t, err)
	require.Equal(t, "/settings", redirect)

	token, ok := creds.Token()
	require.True(t, ok)
	require.Equal(t, "tok", token)
}
