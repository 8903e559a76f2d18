package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "hnsw", cfg.Index.Backend)
	assert.Equal(t, string(domain.AIProviderOllama), cfg.Embedding.Provider)
	assert.Equal(t, 5, cfg.Retrieval.NTopContent)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Setenv("DOCUCHAT_API_KEY", "")
	path := writeConfig(t, `
[server]
port = 9000
api_key = "secret"

[index]
backend = "bruteforce"

[retrieval]
n_top_content = 10
n_top_rerank = 4
use_reranker = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "bruteforce", cfg.Index.Backend)

	settings := cfg.RetrievalSettings()
	assert.Equal(t, 10, settings.NTopContent)
	assert.Equal(t, 4, settings.NTopRerank)
	assert.True(t, settings.UseReranker)
}

func TestLoadConfig_RerankDepthExceedsRetrievalDepth(t *testing.T) {
	path := writeConfig(t, `
[retrieval]
n_top_content = 3
n_top_rerank = 5
use_reranker = true
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadConfig_UnknownIndexBackend(t *testing.T) {
	path := writeConfig(t, `
[index]
backend = "faiss"
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadConfig_OpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
[llm]
provider = "openai"
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadConfig_EnvironmentSuppliesSecrets(t *testing.T) {
	t.Setenv("DOCUCHAT_API_KEY", "env-server-key")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeConfig(t, `
[llm]
provider = "openai"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-server-key", cfg.Server.APIKey)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Empty(t, cfg.Embedding.APIKey, "ollama embedding needs no key")
}

func TestLoadConfig_UnknownProvider(t *testing.T) {
	path := writeConfig(t, `
[embedding]
provider = "bedrock"
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeConfig(t, "not [valid toml")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
