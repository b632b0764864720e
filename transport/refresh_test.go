package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/credentials/storefakes"
	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/transport"
)

// Many concurrent requests observing an expired credential must collapse
// into exactly one refresh call, and every request must be replayed with the
// renewed credential.
func TestConcurrentExpirySingleRefresh(t *testing.T) {
	const concurrency = 25

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		// Hold the flight open long enough for every caller to pile on.
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"accessToken": renewedToken})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != renewedToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"code": transport.CodeTokenExpired})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	creds := storefakes.NewFakeStoreWithToken(expiredToken)
	client, err := transport.NewClient(server.URL, creds)
	require.NoError(t, err)

	start := make(chan struct{})
	errs := make([]error, concurrency)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = client.Get(context.Background(), "/protected", nil)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.Equal(t, int64(1), refreshCalls.Load())

	token, ok := creds.Token()
	require.True(t, ok)
	require.Equal(t, renewedToken, token)
}

// A logout that lands while a refresh is resolving wins: the refresh result
// must not resurrect the cleared credential.
func TestLogoutDuringRefreshIsNotResurrected(t *testing.T) {
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		close(refreshStarted)
		<-releaseRefresh
		json.NewEncoder(w).Encode(map[string]string{"accessToken": renewedToken})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != renewedToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"code": transport.CodeTokenExpired})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	creds := storefakes.NewFakeStoreWithToken(expiredToken)
	client, err := transport.NewClient(server.URL, creds)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- client.Get(context.Background(), "/protected", nil)
	}()

	<-refreshStarted
	// Logout: invalidate the in-flight refresh and clear the credential.
	client.InvalidateRefresh()
	creds.Clear()
	close(releaseRefresh)

	err = <-done
	require.ErrorIs(t, err, clienterrors.ErrSessionExpired)

	_, ok := creds.Token()
	require.False(t, ok, "refresh result must not be written after logout")
}

// Requests arriving after the shared refresh has settled use the renewed
// credential directly without another refresh.
func TestRequestAfterRefreshUsesRenewedToken(t *testing.T) {
	as := newAuthServer(t)
	creds := storefakes.NewFakeStoreWithToken(expiredToken)
	client, err := transport.NewClient(as.server.URL, creds)
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "/protected", nil))
	require.NoError(t, client.Get(context.Background(), "/protected", nil))

	require.Equal(t, int64(1), as.refreshCalls.Load())
}
