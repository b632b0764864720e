package storefakes

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore records every call and can simulate a broken storage backend.
type FakeStore struct {
	mu     sync.Mutex
	token  string
	hasTok bool

	// Broken simulates a storage backend whose reads and writes fail:
	// Get reports absent and Set/Clear are dropped.
	Broken bool

	SetCalls   []string
	ClearCalls int
	GetCalls   int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// NewFakeStoreWithToken returns a fake pre-seeded with a credential.
func NewFakeStoreWithToken(token string) *FakeStore {
	fs := NewFakeStore()
	fs.token = token
	fs.hasTok = true
	return fs
}

func (f *FakeStore) Get() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if f.Broken || !f.hasTok {
		return "", false
	}
	return f.token, true
}

func (f *FakeStore) Set(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetCalls = append(f.SetCalls, token)
	if f.Broken {
		return
	}
	f.token = token
	f.hasTok = token != ""
}

func (f *FakeStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.Broken {
		return
	}
	f.token = ""
	f.hasTok = false
}

// Token returns the currently stored credential for assertions.
func (f *FakeStore) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.hasTok
}
