package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "edgeinbox"

// TokenKey is the keyring entry holding the read-only database token.
const TokenKey = "libsql-token"

// tokenEnv lists environment variables checked before the keyring.
var tokenEnv = []string{"EDGEINBOX_TOKEN", "LIBSQL_CLIENT_TOKEN"}

// openKeyring returns a configured keyring instance.
var openKeyring = func() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/edgeinbox/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("edgeinbox-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token returns the database token from the environment or, failing
// that, from the system keyring.
func Token() (string, error) {
	for _, name := range tokenEnv {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return Get(TokenKey)
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
