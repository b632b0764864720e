// Package gate decides whether a requested view may render given the
// current session state. Decide is deterministic and side-effect free; the
// caller owns the actual redirect and the storing of any return path.
package gate

import (
	"github.com/jrsteele09/go-auth-client/session"
)

// Action is the outcome of a gating decision.
type Action int

const (
	// ActionAllow renders the requested destination.
	ActionAllow Action = iota
	// ActionShowLoading suspends the navigation decision while the initial
	// bootstrap is still determining the session.
	ActionShowLoading
	// ActionRedirectLogin sends an unauthenticated user to the login view,
	// carrying the requested path so login can return there.
	ActionRedirectLogin
	// ActionRedirectLanding keeps an authenticated user out of the
	// login/registration views.
	ActionRedirectLanding
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionShowLoading:
		return "show-loading"
	case ActionRedirectLogin:
		return "redirect-login"
	case ActionRedirectLanding:
		return "redirect-landing"
	default:
		return "unknown"
	}
}

// Route describes a navigation destination.
type Route struct {
	Path      string // Requested path
	Protected bool   // Destination requires an authenticated session
	AuthArea  bool   // Destination is the login/registration area
}

// Decision is the result of gating one navigation request.
type Decision struct {
	Action   Action
	ReturnTo string // Set for ActionRedirectLogin: where to go after login
}

// Decide gates a navigation request against the session state.
func Decide(state session.State, route Route) Decision {
	if state.IsLoading {
		return Decision{Action: ActionShowLoading}
	}
	if route.Protected && !state.IsAuthenticated {
		return Decision{Action: ActionRedirectLogin, ReturnTo: route.Path}
	}
	if route.AuthArea && state.IsAuthenticated {
		return Decision{Action: ActionRedirectLanding}
	}
	return Decision{Action: ActionAllow}
}
