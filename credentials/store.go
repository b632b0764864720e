// Package credentials owns the stored bearer credential. The store is the
// only writer of the credential; every other component reads it through the
// Store interface. Storage failures are logged and swallowed — a credential
// that cannot be read is reported as absent, which callers treat the same as
// "not logged in".
package credentials

import (
	"sync"
)

// StorageKey is the single key the bearer credential is persisted under.
const StorageKey = "accessToken"

// Store is the injected storage capability for the bearer credential.
type Store interface {
	// Get returns the stored credential, or false when none is available.
	Get() (string, bool)
	// Set replaces the stored credential.
	Set(token string)
	// Clear erases the stored credential.
	Clear()
}

// Memory is an in-process Store. It is the default for tests and for hosts
// that do not want durable credentials.
type Memory struct {
	mu    sync.RWMutex
	token string
	set   bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || m.token == "" {
		return "", false
	}
	return m.token, true
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = token != ""
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
}
