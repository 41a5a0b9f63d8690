package credential

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName  = "taskos-sync"
	masterKeyID  = "token-master-key"
	masterKeyLen = 32
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskos-sync/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskos-sync-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// LoadMasterKey retrieves the 32-byte token-encryption key from the system
// keyring, generating and storing a fresh one on first use.
func LoadMasterKey() ([]byte, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(masterKeyID)
	if err == nil {
		key, decErr := base64.StdEncoding.DecodeString(string(item.Data))
		if decErr != nil {
			return nil, fmt.Errorf("decoding master key: %w", decErr)
		}
		if len(key) != masterKeyLen {
			return nil, fmt.Errorf(
				"master key has %d bytes, want %d", len(key), masterKeyLen,
			)
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("reading master key: %w", err)
	}

	key := make([]byte, masterKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating master key: %w", err)
	}

	err = ring.Set(keyring.Item{
		Key:  masterKeyID,
		Data: []byte(base64.StdEncoding.EncodeToString(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("storing master key: %w", err)
	}

	return key, nil
}
