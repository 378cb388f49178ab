package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCatalog_EmbeddedProviders(t *testing.T) {
	catalog, err := NewModelCatalogService()
	require.NoError(t, err)

	groups := catalog.ListModelGroups()
	require.Len(t, groups, 3)
	assert.Equal(t, "gemini", groups[0].ProviderID)
	assert.Equal(t, "anthropic", groups[1].ProviderID)
	assert.Equal(t, "openai", groups[2].ProviderID)

	assert.Equal(t,
		[]string{"GOOGLE_GENERATIVE_AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		groups[0].APIKeyEnv)

	def, err := catalog.DefaultModel("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", def)
}

func TestModelCatalog_ModelsSortedAndDefaultFlagged(t *testing.T) {
	catalog, err := newModelCatalogService([]byte(`{"providers":[
		{"id":"p","displayName":"P","defaultModel":"b-1","apiKeyEnv":["P_KEY"],
		 "models":[{"displayName":"Zeta","apiName":"z-1"},{"displayName":"beta","apiName":"b-1"},{"displayName":"x","apiName":" "}]}
	]}`))
	require.NoError(t, err)

	groups := catalog.ListModelGroups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Models, 2)
	assert.Equal(t, "beta", groups[0].Models[0].DisplayName)
	assert.True(t, groups[0].Models[0].Default)
	assert.False(t, groups[0].Models[1].Default)

	mdl, err := catalog.GetModel("p|z-1")
	require.NoError(t, err)
	assert.Equal(t, "z-1", mdl.APIName)
	assert.Equal(t, "P", mdl.ProviderName)
}

func TestModelCatalog_Errors(t *testing.T) {
	catalog, err := newModelCatalogService([]byte(`{"providers":[{"id":"bare","models":[]}]}`))
	require.NoError(t, err)

	_, err = catalog.GetModel("  ")
	assert.EqualError(t, err, "model key is required")

	_, err = catalog.GetModel("bare|nothing")
	assert.EqualError(t, err, "model bare|nothing not found")

	_, err = catalog.Provider("nope")
	assert.EqualError(t, err, "provider nope not found")

	_, err = catalog.DefaultModel("bare")
	assert.EqualError(t, err, "provider bare has no default model")

	group, err := catalog.Provider("bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", group.ProviderName)

	_, err = newModelCatalogService([]byte("{"))
	assert.Error(t, err)
}
