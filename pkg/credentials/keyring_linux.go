package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// KeyringStore keeps digests as "user" keys in the session keyring, so
// they survive a restart of the shell within the same login session.
type KeyringStore struct {
	ring int
}

// NewKeyringStore returns a store backed by the session keyring.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{ring: unix.KEY_SPEC_SESSION_KEYRING}
}

func (k *KeyringStore) Get(key Key) (string, bool, error) {
	id, err := unix.KeyctlSearch(k.ring, "user", string(key), 0)
	if err != nil {
		if errors.Is(err, unix.ENOKEY) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("keyring search %s: %w", key, err)
	}
	buf := make([]byte, 128)
	n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, id, buf, 0)
	if err != nil {
		return "", false, fmt.Errorf("keyring read %s: %w", key, err)
	}
	if n > len(buf) {
		buf = make([]byte, n)
		if n, err = unix.KeyctlBuffer(unix.KEYCTL_READ, id, buf, 0); err != nil {
			return "", false, fmt.Errorf("keyring read %s: %w", key, err)
		}
	}
	return string(buf[:n]), true, nil
}

func (k *KeyringStore) Set(key Key, digest string) error {
	if _, err := unix.AddKey("user", string(key), []byte(digest), k.ring); err != nil {
		return fmt.Errorf("keyring add %s: %w", key, err)
	}
	return nil
}
