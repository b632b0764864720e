// Package session owns the client-side session: the current identity, the
// authenticated flag, the bootstrap loading flag and the last user-visible
// error. The Manager is the single writer of that state; views read
// snapshots through State and drive transitions through the exported
// operations. No raw transport error ever crosses out of this package —
// callers receive either a resolved outcome or a normalized message.
package session

import (
	"github.com/jrsteele09/go-auth-client/identity"
)

// State is a snapshot of the session. IsAuthenticated is true exactly when
// Identity is non-nil. IsLoading is true only while the initial bootstrap is
// determining the session; login and logout never touch it.
type State struct {
	Identity        *identity.Identity
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// LoginOutcome tags the two success variants of a login call.
type LoginOutcome int

const (
	// LoginAuthenticated means a full session was established.
	LoginAuthenticated LoginOutcome = iota
	// LoginStepUpRequired means the password was accepted but a second
	// factor must be verified before a session exists.
	LoginStepUpRequired
)

// LoginResult is the tagged outcome of a successful login call. Identity is
// set for LoginAuthenticated; StepUpUserID for LoginStepUpRequired.
type LoginResult struct {
	Outcome      LoginOutcome
	Identity     *identity.Identity
	StepUpUserID string
}

// Credentials are the primary login inputs.
type Credentials struct {
	Email    string
	Password string
}

// Registration are the inputs for creating a new account. Registration does
// not imply login — the user still verifies their email and logs in.
type Registration struct {
	Name     string
	Email    string
	Password string
}
