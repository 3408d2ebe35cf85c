package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "bbpr"

// Keyring item keys
const (
	keyUsername = "bitbucket.username"
	keyPassword = "bitbucket.password"
	keyToken    = "bitbucket.token"
)

// OpenKeyring returns the OS keyring configured for bbpr
func OpenKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/bbpr/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("bbpr-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Save stores credentials in the keyring, replacing whatever was there
func Save(ring keyring.Keyring, creds Credentials) error {
	if err := Clear(ring); err != nil {
		return err
	}

	items := map[string]string{
		keyUsername: creds.Username,
		keyPassword: creds.Password,
		keyToken:    creds.Token,
	}
	for key, value := range items {
		if value == "" {
			continue
		}
		if err := ring.Set(keyring.Item{Key: key, Data: []byte(value)}); err != nil {
			return fmt.Errorf("setting credential %q: %w", key, err)
		}
	}
	return nil
}

// Clear removes all bbpr credentials from the keyring. Missing items are ignored.
func Clear(ring keyring.Keyring) error {
	for _, key := range []string{keyUsername, keyPassword, keyToken} {
		if err := ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("deleting credential %q: %w", key, err)
		}
	}
	return nil
}

// get returns "" for a missing item
func get(ring keyring.Keyring, key string) (string, error) {
	item, err := ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}
