package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codereview/internal/assets"
	"codereview/internal/models"
)

type ModelCatalogService interface {
	ListModelGroups() []models.LLMModelGroup
	GetModel(modelKey string) (*models.LLMModel, error)
	Provider(providerID string) (*models.LLMModelGroup, error)
	// DefaultModel returns the API name used when no model is configured.
	DefaultModel(providerID string) (string, error)
}

type modelCatalogService struct {
	mu            sync.RWMutex
	providerOrder []string
	providers     map[string]*catalogProvider
	models        map[string]*catalogModel
}

type catalogProvider struct {
	ID           string
	Name         string
	DefaultModel string
	APIKeyEnv    []string
}

type catalogModel struct {
	Key         string
	ProviderID  string
	DisplayName string
	APIName     string
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"displayName"`
	DefaultModel string     `json:"defaultModel"`
	APIKeyEnv    []string   `json:"apiKeyEnv"`
	Models       []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
}

// NewModelCatalogService parses the embedded catalog.
func NewModelCatalogService() (ModelCatalogService, error) {
	return newModelCatalogService(assets.ModelsData)
}

func newModelCatalogService(data []byte) (*modelCatalogService, error) {
	var parsed rawModelFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse models asset: %w", err)
	}

	s := &modelCatalogService{
		providers: make(map[string]*catalogProvider),
		models:    make(map[string]*catalogModel),
	}
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		s.providers[providerID] = &catalogProvider{
			ID:           providerID,
			Name:         strings.TrimSpace(provider.DisplayName),
			DefaultModel: strings.TrimSpace(provider.DefaultModel),
			APIKeyEnv:    provider.APIKeyEnv,
		}
		s.providerOrder = append(s.providerOrder, providerID)
		for _, mdl := range provider.Models {
			apiName := strings.TrimSpace(mdl.APIName)
			if apiName == "" {
				continue
			}
			key := computeModelKey(providerID, apiName)
			s.models[key] = &catalogModel{
				Key:         key,
				ProviderID:  providerID,
				DisplayName: strings.TrimSpace(mdl.DisplayName),
				APIName:     apiName,
			}
		}
	}
	return s, nil
}

func (s *modelCatalogService) ListModelGroups() []models.LLMModelGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := s.toGroup(s.providers[providerID])
		var modelsForProvider []models.LLMModel
		for _, mdl := range s.models {
			if mdl.ProviderID != providerID {
				continue
			}
			modelsForProvider = append(modelsForProvider, s.toLLMModel(mdl))
		}
		sort.SliceStable(modelsForProvider, func(i, j int) bool {
			return strings.ToLower(modelsForProvider[i].DisplayName) < strings.ToLower(modelsForProvider[j].DisplayName)
		})
		group.Models = modelsForProvider
		groups = append(groups, group)
	}
	return groups
}

func (s *modelCatalogService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	catalog, ok := s.models[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	model := s.toLLMModel(catalog)
	return &model, nil
}

func (s *modelCatalogService) Provider(providerID string) (*models.LLMModelGroup, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, fmt.Errorf("provider is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	provider, ok := s.providers[providerID]
	if !ok {
		return nil, fmt.Errorf("provider %s not found", providerID)
	}
	group := s.toGroup(provider)
	return &group, nil
}

func (s *modelCatalogService) DefaultModel(providerID string) (string, error) {
	provider, err := s.Provider(providerID)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	def := s.providers[provider.ProviderID].DefaultModel
	if def == "" {
		return "", fmt.Errorf("provider %s has no default model", providerID)
	}
	return def, nil
}

func (s *modelCatalogService) toGroup(provider *catalogProvider) models.LLMModelGroup {
	name := provider.Name
	if name == "" {
		name = provider.ID
	}
	return models.LLMModelGroup{
		ProviderID:   provider.ID,
		ProviderName: name,
		APIKeyEnv:    append([]string{}, provider.APIKeyEnv...),
	}
}

func (s *modelCatalogService) toLLMModel(mdl *catalogModel) models.LLMModel {
	provider := s.providers[mdl.ProviderID]
	return models.LLMModel{
		Key:          mdl.Key,
		DisplayName:  mdl.DisplayName,
		APIName:      mdl.APIName,
		ProviderID:   mdl.ProviderID,
		ProviderName: s.toGroup(provider).ProviderName,
		Default:      provider.DefaultModel == mdl.APIName,
	}
}

func computeModelKey(providerID, apiName string) string {
	return providerID + "|" + apiName
}
