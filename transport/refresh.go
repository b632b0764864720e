package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

const refreshPath = "/auth/refresh-token"

// Coordinator converts any number of concurrent expired-credential signals
// into a single outbound refresh call. Callers that observe an expired token
// while a refresh is in flight wait for the shared outcome instead of
// issuing their own call; the renewed credential is stored before any waiter
// is released, so every replayed request sees it.
type Coordinator struct {
	client  *Client
	group   singleflight.Group
	timeout time.Duration

	mu        sync.Mutex
	epoch     uint64
	listeners []func()
}

func newCoordinator(client *Client) *Coordinator {
	return &Coordinator{
		client:  client,
		timeout: 10 * time.Second,
	}
}

// refresh exchanges the ambient renewal credential (the cookie jar on the
// underlying HTTP client) for a new bearer token. All concurrent callers
// share one flight and one outcome.
func (rc *Coordinator) refresh() (string, error) {
	token, err, _ := rc.group.Do("refresh", func() (any, error) {
		epoch := rc.currentEpoch()

		newToken, err := rc.call()
		if err != nil {
			// Irrecoverable: tear the session down. Every waiter gets
			// "logout", not a retry.
			rc.client.log.Err(err).Msg("Token refresh failed, clearing session")
			rc.expire()
			return nil, clienterrors.Wrapf(clienterrors.ErrSessionExpired, "refresh")
		}

		rc.mu.Lock()
		stale := rc.epoch != epoch
		rc.mu.Unlock()
		if stale {
			// A logout landed while the refresh was in flight. The logout
			// wins: do not resurrect the cleared credential.
			return nil, clienterrors.Wrapf(clienterrors.ErrSessionExpired, "refresh superseded by logout")
		}

		rc.client.creds.Set(newToken)
		rc.client.log.Debug().Msg("Access token refreshed")
		return newToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// call issues the refresh request itself. It deliberately runs on a fresh
// context: navigating away from whatever view triggered the refresh must not
// cancel a refresh other waiters depend on.
func (rc *Coordinator) call() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.client.baseURL+refreshPath, nil)
	if err != nil {
		return "", errors.Wrap(err, "[refresh] build request")
	}
	// No Authorization header: the expired bearer token proves nothing and
	// the renewal credential travels in the cookie jar.
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[refresh] request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("[refresh] status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "[refresh] decode response")
	}
	if body.AccessToken == "" {
		return "", errors.New("[refresh] empty access token")
	}
	return body.AccessToken, nil
}

// expire clears the stored credential and notifies session-expired
// listeners. Used when refresh fails and when a renewed token is rejected.
func (rc *Coordinator) expire() {
	rc.client.creds.Clear()

	rc.mu.Lock()
	listeners := make([]func(), len(rc.listeners))
	copy(listeners, rc.listeners)
	rc.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// invalidate marks any in-flight refresh as stale. Logout calls this so a
// refresh resolving afterwards cannot write a credential back.
func (rc *Coordinator) invalidate() {
	rc.mu.Lock()
	rc.epoch++
	rc.mu.Unlock()
}

func (rc *Coordinator) currentEpoch() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.epoch
}

func (rc *Coordinator) onExpired(fn func()) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.listeners = append(rc.listeners, fn)
}
