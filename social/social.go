// Package social implements the third-party login round trip. The host
// hands control to a provider (directly when a client ID is configured,
// otherwise via the auth service's broker endpoint) and receives a bearer
// token on the callback. The requested path survives the round trip in the
// ephemeral return-path store and is consumed exactly once.
package social

import (
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/gate"
)

// Provider identifies a supported social-login provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// CallbackFallback is the user-visible message when the callback carries no
// token.
const CallbackFallback = "Social login failed. Please try again."

// Config configures the social-login flow.
type Config struct {
	// APIBaseURL is the auth service base used for broker-style redirects
	// (service-side provider integration).
	APIBaseURL string
	// CallbackURL receives the provider redirect for direct authorization.
	CallbackURL string
	// GoogleClientID / FacebookClientID enable direct provider
	// authorization; when empty the broker endpoint is used.
	GoogleClientID   string
	FacebookClientID string
	// LandingPath is where the callback sends the user when no return path
	// was stored.
	LandingPath string
}

// Flow drives the social-login round trip.
type Flow struct {
	cfg         Config
	creds       credentials.Store
	returnPaths *gate.ReturnPathStore
	log         zerolog.Logger

	mu            sync.Mutex
	pendingStates map[string]bool
}

// Option defines a function type to modify the Flow instance.
type Option func(*Flow)

// WithLogger sets the logger used for social-login events.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.log = logger
	}
}

// NewFlow initializes a Flow with required dependencies.
func NewFlow(cfg Config, creds credentials.Store, returnPaths *gate.ReturnPathStore, options ...Option) (*Flow, error) {
	if cfg.APIBaseURL == "" {
		return nil, errors.New("[NewFlow] API base URL is required")
	}
	if creds == nil {
		return nil, errors.New("[NewFlow] credential store is required")
	}
	if returnPaths == nil {
		return nil, errors.New("[NewFlow] return path store is required")
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/dashboard"
	}

	flow := &Flow{
		cfg:           cfg,
		creds:         creds,
		returnPaths:   returnPaths,
		log:           zerolog.Nop(),
		pendingStates: make(map[string]bool),
	}
	for _, opt := range options {
		opt(flow)
	}
	return flow, nil
}

// BeginLogin stores the current path for the post-login redirect and
// returns the URL to hand the user to.
func (f *Flow) BeginLogin(provider Provider, currentPath string) (string, error) {
	f.returnPaths.Set(currentPath)

	clientID, endpoint, err := f.providerConfig(provider)
	if err != nil {
		return "", err
	}

	if clientID == "" || f.cfg.CallbackURL == "" {
		// Broker style: the auth service owns the provider handshake.
		return f.cfg.APIBaseURL + "/auth/" + string(provider), nil
	}

	state := uuid.NewString()
	f.mu.Lock()
	f.pendingStates[state] = true
	f.mu.Unlock()

	conf := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: f.cfg.CallbackURL,
		Endpoint:    endpoint,
		Scopes:      []string{"openid", "email", "profile"},
	}
	return conf.AuthCodeURL(state), nil
}

// HandleCallback consumes the provider callback. On success the delivered
// token is stored and the saved return path (or the landing path) is
// returned for the host to navigate to.
func (f *Flow) HandleCallback(values url.Values) (string, error) {
	if state := values.Get("state"); state != "" {
		f.mu.Lock()
		known := f.pendingStates[state]
		delete(f.pendingStates, state)
		f.mu.Unlock()
		if !known {
			f.log.Warn().Msg("Social callback with unknown state")
			return "", errors.New(CallbackFallback)
		}
	}

	token := values.Get("token")
	if token == "" {
		return "", errors.New(CallbackFallback)
	}

	f.creds.Set(token)
	return f.returnPaths.Consume(f.cfg.LandingPath), nil
}

func (f *Flow) providerConfig(provider Provider) (string, oauth2.Endpoint, error) {
	switch provider {
	case ProviderGoogle:
		return f.cfg.GoogleClientID, endpoints.Google, nil
	case ProviderFacebook:
		return f.cfg.FacebookClientID, endpoints.Facebook, nil
	default:
		return "", oauth2.Endpoint{}, errors.Errorf("[providerConfig] unsupported provider %q", provider)
	}
}
