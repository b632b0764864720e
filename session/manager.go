package session

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/api"
	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/identity"
	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/stepup"
	"github.com/jrsteele09/go-auth-client/transport"
)

// Remote endpoints driven by the session manager.
const (
	loginPath      = "/auth/login"
	registerPath   = "/auth/register"
	logoutPath     = "/auth/logout"
	profilePath    = "/users/profile"
	verify2FAPath  = "/2fa/verify"
	backupCodePath = "/2fa/backup-codes/use"
)

// Fallback messages used when the remote service supplies none.
const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
	verifyFallback   = "Verification failed"
	profileFallback  = "Could not load profile"
)

// Manager is the process-wide session state container. Create one per
// application; it is safe for concurrent use.
type Manager struct {
	client *transport.Client
	creds  credentials.Store
	stepUp *stepup.Coordinator
	log    zerolog.Logger

	mu    sync.RWMutex
	state State
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithLogger sets the logger used for session-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithStepUpCoordinator replaces the default step-up coordinator (primarily
// for testing challenge expiry).
func WithStepUpCoordinator(c *stepup.Coordinator) Option {
	return func(m *Manager) {
		m.stepUp = c
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration can be provided via options. The session starts in the
// loading state until Bootstrap settles it.
func NewManager(client *transport.Client, creds credentials.Store, options ...Option) (*Manager, error) {
	if client == nil {
		return nil, errors.New("[NewManager] transport client is required")
	}
	if creds == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}

	manager := &Manager{
		client: client,
		creds:  creds,
		stepUp: stepup.NewCoordinator(),
		log:    zerolog.Nop(),
		state:  State{IsLoading: true},
	}

	for _, opt := range options {
		opt(manager)
	}

	// A forced logout (refresh failure, rejected renewed token) clears the
	// local session too. The update is idempotent: a session already cleared
	// by Logout stays cleared.
	client.OnSessionExpired(manager.clearSession)

	return manager, nil
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Bootstrap determines the initial session on process start. With no stored
// credential it resolves unauthenticated without any network call; with a
// credential the identity is fetched, and any failure clears the credential
// and leaves the session unauthenticated. It is the only operation that
// writes IsLoading, and it always settles it to false.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer m.setLoading(false)

	if _, ok := m.creds.Get(); !ok {
		return
	}

	var resp api.ProfileResponse
	if err := m.client.Get(ctx, profilePath, &resp); err != nil || resp.User == nil {
		if err != nil {
			m.log.Warn().Err(err).Msg("Bootstrap rejected, clearing stored credential")
		}
		m.creds.Clear()
		return
	}

	m.setAuthenticated(resp.User)
}

// Login authenticates with email and password. Three outcomes: a full
// session, a step-up challenge (no session yet), or an error with the
// session unchanged.
func (m *Manager) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := ValidateEmail(creds.Email); err != nil {
		return LoginResult{}, err
	}
	if creds.Password == "" {
		return LoginResult{}, clienterrors.Wrapf(clienterrors.ErrValidation, "password is required")
	}

	m.setErr("")

	var resp api.LoginResponse
	err := m.client.Post(ctx, loginPath, api.LoginRequest{Email: creds.Email, Password: creds.Password}, &resp)
	if err != nil {
		msg := remoteMessage(err, loginFallback)
		m.setErr(msg)
		return LoginResult{}, errors.New(msg)
	}

	if resp.RequiresTwoFactor {
		m.stepUp.Begin(resp.UserID)
		return LoginResult{Outcome: LoginStepUpRequired, StepUpUserID: resp.UserID}, nil
	}

	if resp.AccessToken == "" || resp.User == nil {
		m.setErr(loginFallback)
		return LoginResult{}, errors.New(loginFallback)
	}

	// A full session supersedes any challenge left over from an earlier
	// login attempt.
	m.stepUp.Abandon()

	m.creds.Set(resp.AccessToken)
	m.setAuthenticated(resp.User)
	return LoginResult{Outcome: LoginAuthenticated, Identity: resp.User}, nil
}

// CompleteStepUp verifies the second factor for the pending challenge. On
// success the session becomes authenticated and the challenge is destroyed;
// on failure the challenge is retained so the user may retry the code.
func (m *Manager) CompleteStepUp(ctx context.Context, code string) (*identity.Identity, error) {
	if err := stepup.ValidateCode(code); err != nil {
		return nil, err
	}

	pending, ok := m.stepUp.Pending()
	if !ok {
		return nil, clienterrors.ErrNoPendingStepUp
	}

	var resp api.VerifyResponse
	err := m.client.Post(ctx, verify2FAPath, api.VerifyRequest{UserID: pending.UserID, Token: code}, &resp)
	if err != nil || resp.AccessToken == "" {
		msg := remoteMessage(err, verifyFallback)
		m.setErr(msg)
		return nil, errors.New(msg)
	}

	m.creds.Set(resp.AccessToken)

	user := resp.User
	if user == nil {
		var profile api.ProfileResponse
		if err := m.client.Get(ctx, profilePath, &profile); err != nil || profile.User == nil {
			m.creds.Clear()
			return nil, errors.New(profileFallback)
		}
		user = profile.User
	}

	m.stepUp.Resolve()
	m.setErr("")
	m.setAuthenticated(user)
	return user, nil
}

// CompleteStepUpWithBackupCode verifies the pending challenge with a
// one-time recovery code instead of an authenticator code. Outcome handling
// matches CompleteStepUp.
func (m *Manager) CompleteStepUpWithBackupCode(ctx context.Context, code string) (*identity.Identity, error) {
	if strings.TrimSpace(code) == "" {
		return nil, clienterrors.Wrapf(clienterrors.ErrValidation, "backup code is required")
	}

	pending, ok := m.stepUp.Pending()
	if !ok {
		return nil, clienterrors.ErrNoPendingStepUp
	}

	var resp api.VerifyResponse
	err := m.client.Post(ctx, backupCodePath, map[string]string{"userId": pending.UserID, "code": code}, &resp)
	if err != nil || resp.AccessToken == "" {
		msg := remoteMessage(err, verifyFallback)
		m.setErr(msg)
		return nil, errors.New(msg)
	}

	m.creds.Set(resp.AccessToken)

	user := resp.User
	if user == nil {
		var profile api.ProfileResponse
		if err := m.client.Get(ctx, profilePath, &profile); err != nil || profile.User == nil {
			m.creds.Clear()
			return nil, errors.New(profileFallback)
		}
		user = profile.User
	}

	m.stepUp.Resolve()
	m.setErr("")
	m.setAuthenticated(user)
	return user, nil
}

// AbandonStepUp drops the pending challenge; the session stays
// unauthenticated and the user must log in again.
func (m *Manager) AbandonStepUp() {
	m.stepUp.Abandon()
}

// StepUpPending reports the active step-up challenge, if any.
func (m *Manager) StepUpPending() (stepup.Pending, bool) {
	return m.stepUp.Pending()
}

// Register creates a new account. Session state is not changed —
// registration does not log the user in.
func (m *Manager) Register(ctx context.Context, reg Registration) (string, error) {
	if reg.Name == "" {
		return "", clienterrors.Wrapf(clienterrors.ErrValidation, "name is required")
	}
	if err := ValidateEmail(reg.Email); err != nil {
		return "", err
	}
	if err := ValidatePasswordStrength(reg.Password); err != nil {
		return "", err
	}

	m.setErr("")

	var resp api.MessageResponse
	if err := m.client.Post(ctx, registerPath, api.RegisterRequest{Name: reg.Name, Email: reg.Email, Password: reg.Password}, &resp); err != nil {
		msg := remoteMessage(err, registerFallback)
		m.setErr(msg)
		return "", errors.New(msg)
	}
	return resp.Message, nil
}

// Logout ends the session. The remote call is best-effort — a network
// failure is logged and swallowed — and the local session is cleared
// unconditionally: it must never remain authenticated after a logout.
func (m *Manager) Logout(ctx context.Context) {
	// Invalidate first so a refresh resolving mid-logout cannot write a
	// credential back.
	m.client.InvalidateRefresh()

	if err := m.client.Post(ctx, logoutPath, nil, nil); err != nil {
		m.log.Warn().Err(err).Msg("Logout API error")
	}

	m.creds.Clear()
	m.stepUp.Abandon()
	m.clearSession()
}

func (m *Manager) setAuthenticated(user *identity.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Identity = user
	m.state.IsAuthenticated = user != nil
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Identity = nil
	m.state.IsAuthenticated = false
	m.state.Err = ""
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsLoading = loading
}

func (m *Manager) setErr(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = msg
}

// remoteMessage extracts the service's message from a transport error, or
// falls back to a fixed per-operation string. Session expiry keeps its
// sentinel so callers can distinguish a forced logout.
func remoteMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if clienterrors.Is(err, clienterrors.ErrSessionExpired) {
		return clienterrors.ErrSessionExpired.Error()
	}
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func escapePathToken(token string) string {
	return url.PathEscape(token)
}
