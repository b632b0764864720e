package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore persists the credential in a small JSON document on disk so it
// survives process restarts. Read and write failures are logged and treated
// as an absent credential, never surfaced to callers.
type FileStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

func (fs *FileStore) Get() (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.log.Err(err).Str("path", fs.path).Msg("Failed to read credential file")
		}
		return "", false
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		fs.log.Err(err).Str("path", fs.path).Msg("Failed to decode credential file")
		return "", false
	}

	token, ok := doc[StorageKey]
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (fs *FileStore) Set(token string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.Marshal(map[string]string{StorageKey: token})
	if err != nil {
		fs.log.Err(err).Msg("Failed to encode credential")
		return
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		fs.log.Err(err).Str("path", fs.path).Msg("Failed to create credential directory")
		return
	}

	// Write-then-rename so a crash mid-write never leaves a torn file.
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		fs.log.Err(err).Str("path", fs.path).Msg("Failed to write credential file")
		return
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		fs.log.Err(err).Str("path", fs.path).Msg("Failed to replace credential file")
	}
}

func (fs *FileStore) Clear() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		fs.log.Err(err).Str("path", fs.path).Msg("Failed to remove credential file")
	}
}
