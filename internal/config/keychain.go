package config

import (
	"fmt"
	"runtime"

	"github.com/zalando/go-keyring"
)

const (
	// KeychainService is the keychain service identifier
	KeychainService = "doclens"

	// keychainAccount is the account name the API key is stored under
	keychainAccount = "gemini-api-key"
)

// KeychainAvailable checks if a system keychain is usable on this system
func KeychainAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux":
		// Linux requires a secret service (like gnome-keyring).
		// Probe with a throwaway entry.
		err := keyring.Set(KeychainService, "__test__", "test")
		if err != nil {
			return false
		}
		_ = keyring.Delete(KeychainService, "__test__")
		return true
	default:
		return false
	}
}

// SaveAPIKeyToKeychain stores the Gemini API key in the system keychain
func SaveAPIKeyToKeychain(key string) error {
	if err := keyring.Set(KeychainService, keychainAccount, key); err != nil {
		return fmt.Errorf("failed to save to keychain: %w", err)
	}
	return nil
}

// LoadAPIKeyFromKeychain retrieves the Gemini API key from the system
// keychain. A missing entry is not an error; it returns an empty key.
func LoadAPIKeyFromKeychain() (string, error) {
	key, err := keyring.Get(KeychainService, keychainAccount)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to load from keychain: %w", err)
	}
	return key, nil
}

// DeleteAPIKeyFromKeychain removes the stored API key. Deleting a key that
// was never stored is not an error.
func DeleteAPIKeyFromKeychain() error {
	err := keyring.Delete(KeychainService, keychainAccount)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete from keychain: %w", err)
	}
	return nil
}
