package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"codereview/internal/logger"
)

// MissingCredentialsError is returned when neither the environment nor the
// keyring holds a key for the provider.
type MissingCredentialsError struct {
	Provider string
	EnvVars  []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("no API key for %s: set %s or run `codereview key set %s`",
		e.Provider, strings.Join(e.EnvVars, " or "), e.Provider)
}

// Credential is a resolved API key and where it came from.
type Credential struct {
	Key    string
	Source string
}

type CredentialService struct {
	catalog   ModelCatalogService
	keys      *KeyringService
	lookupEnv func(string) (string, bool)
}

// NewCredentialService resolves keys from the environment first, then keys.
// keys may be nil when no keyring is available.
func NewCredentialService(catalog ModelCatalogService, keys *KeyringService) *CredentialService {
	return &CredentialService{catalog: catalog, keys: keys, lookupEnv: os.LookupEnv}
}

func (s *CredentialService) Resolve(providerID string) (*Credential, error) {
	provider, err := s.catalog.Provider(providerID)
	if err != nil {
		return nil, err
	}

	for _, name := range provider.APIKeyEnv {
		if v, ok := s.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return &Credential{Key: strings.TrimSpace(v), Source: "env:" + name}, nil
		}
	}

	if s.keys != nil {
		key, err := s.keys.GetApiKey(provider.ProviderID)
		switch {
		case err == nil && key != "":
			return &Credential{Key: key, Source: "keyring"}, nil
		case err != nil && !errors.Is(err, ErrAPIKeyNotFound):
			logger.WithComponent("credentials").WithError(err).Warn("keyring lookup failed")
		}
	}

	return nil, &MissingCredentialsError{Provider: provider.ProviderID, EnvVars: provider.APIKeyEnv}
}
