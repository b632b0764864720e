// Package stepup holds the short-lived state between "login accepted" and
// "session established" when the remote service demands a second factor. At
// most one challenge exists at a time and none of it survives a process
// restart — losing the challenge is equivalent to abandoning the flow.
package stepup

import (
	"regexp"
	"sync"
	"time"

	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// DefaultTTL bounds how long a pending challenge stays valid. The remote
// service keeps its own server-side window; this client-side bound stops a
// stale challenge from lingering until navigation.
const DefaultTTL = 5 * time.Minute

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Pending is the handle for an in-progress step-up: which user confirmed
// their password and when the challenge was issued.
type Pending struct {
	UserID    string
	CreatedAt time.Time
}

// Coordinator tracks the single pending challenge.
type Coordinator struct {
	mu      sync.Mutex
	pending *Pending
	ttl     time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Coordinator instance.
type Option func(*Coordinator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Coordinator) {
		c.nowTime = nowFunc
	}
}

// WithTTL overrides the challenge lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.ttl = ttl
	}
}

// NewCoordinator creates a Coordinator with no pending challenge.
func NewCoordinator(options ...Option) *Coordinator {
	c := &Coordinator{
		ttl:     DefaultTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Begin starts a challenge for the given user. A fresh login attempt
// supersedes any stale pending challenge.
func (c *Coordinator) Begin(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &Pending{UserID: userID, CreatedAt: c.nowTime()}
}

// Pending returns the active challenge. Expired challenges are dropped and
// reported as absent.
func (c *Coordinator) Pending() (Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return Pending{}, false
	}
	if c.nowTime().Sub(c.pending.CreatedAt) > c.ttl {
		c.pending = nil
		return Pending{}, false
	}
	return *c.pending, true
}

// Resolve destroys the challenge after a successful verification.
func (c *Coordinator) Resolve() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// Abandon drops the challenge without verifying, leaving the session
// unauthenticated. The user must log in again.
func (c *Coordinator) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ValidateCode checks the verification code shape locally — exactly six
// digits — so malformed input never reaches the network.
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return clienterrors.Wrapf(clienterrors.ErrInvalidCode, "code must be exactly 6 digits")
	}
	return nil
}
