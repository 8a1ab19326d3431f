// Package credentials stores the enable password and enable secret as
// SHA-256 digests, either in memory or in the Linux session keyring.
package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
)

// Key names one stored credential.
type Key string

const (
	EnablePassword Key = "cli_enable_password"
	EnableSecret   Key = "cli_enable_secret"
)

// Store persists credential digests.
type Store interface {
	Get(k Key) (digest string, ok bool, err error)
	Set(k Key, digest string) error
}

// Hash returns the lowercase hex SHA-256 digest of plain.
func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether plain hashes to digest.
func Matches(digest, plain string) bool {
	got := Hash(plain)
	return subtle.ConstantTimeCompare([]byte(got), []byte(digest)) == 1
}

// MemoryStore keeps digests for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[Key]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[Key]string)}
}

func (m *MemoryStore) Get(k Key) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.keys[k]
	return d, ok, nil
}

func (m *MemoryStore) Set(k Key, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[k] = digest
	return nil
}
