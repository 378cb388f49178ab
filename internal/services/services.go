package services

import (
	"codereview/internal/repositories"

	"gorm.io/gorm"
)

// Services aggregates the domain services used by the command line.
type Services struct {
	Catalog     ModelCatalogService
	Credentials *CredentialService
	Keys        *KeyringService
	Git         *GitService
	// Runs is nil when history is disabled.
	Runs ReviewRunService
}

// NewServices wires the service container. db and keys may be nil.
func NewServices(db *gorm.DB, keys *KeyringService) (*Services, error) {
	catalog, err := NewModelCatalogService()
	if err != nil {
		return nil, err
	}
	s := &Services{
		Catalog:     catalog,
		Credentials: NewCredentialService(catalog, keys),
		Keys:        keys,
		Git:         NewGitService(),
	}
	if db != nil {
		s.Runs = NewReviewRunService(repositories.NewReviewRunRepository(db))
	}
	return s, nil
}
