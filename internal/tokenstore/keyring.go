package tokenstore

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "hubctl"

// Keyring stores the session token in the OS credential store (Secret
// Service on Linux, Keychain on macOS, Credential Manager on Windows).
// Tokens are keyed by server host so sessions against different
// deployments don't clobber each other.
type Keyring struct {
	account string
}

// NewKeyring creates a keyring-backed store scoped to the given server
// host (e.g. "vault.example.com").
func NewKeyring(serverHost string) *Keyring {
	return &Keyring{account: serverHost}
}

func (k *Keyring) Set(token string) error {
	return keyring.Set(keyringService, k.account, token)
}

func (k *Keyring) Get() (string, error) {
	token, err := keyring.Get(keyringService, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (k *Keyring) Clear() error {
	err := keyring.Delete(keyringService, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

func (k *Keyring) Source() string { return "keyring" }
