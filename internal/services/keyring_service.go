package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "codereview"

// ErrAPIKeyNotFound is returned when no key is stored for a provider.
var ErrAPIKeyNotFound = errors.New("API key not found")

type KeyringService struct {
	ring keyring.Keyring
}

// OpenKeyring opens the OS credential store used for provider API keys.
func OpenKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		// Native stores only; the encrypted file backend would prompt for a password.
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

func NewKeyringService(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errors.New("provider is required")
	}
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	return s.ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by codereview",
	})
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%s: %w", provider, ErrAPIKeyNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errors.New("provider is required")
	}
	// Some backends report success when removing a missing item.
	if _, err := s.ring.Get(provider); errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", provider, ErrAPIKeyNotFound)
	}
	return s.ring.Remove(provider)
}

// ListApiKeys returns the providers that have a stored key, sorted by name.
func (s *KeyringService) ListApiKeys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
