package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// Config is the full application configuration loaded from TOML.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Index     IndexConfig     `toml:"index"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Reranker  RerankerConfig  `toml:"reranker"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Prompts   PromptsConfig   `toml:"prompts"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// APIKey protects the API when set; empty disables authentication.
	APIKey string `toml:"api_key"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	// DataDir holds the SQLite database. Empty means ~/.docuchat/data;
	// ":memory:" selects the ephemeral in-memory stores.
	DataDir string `toml:"data_dir"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	// Backend selects the index implementation: "hnsw" or "bruteforce".
	Backend string `toml:"backend"`

	// M, EfConstruction and EfSearch tune the HNSW graph; ignored by
	// the bruteforce backend.
	M              int `toml:"m"`
	EfConstruction int `toml:"ef_construction"`
	EfSearch       int `toml:"ef_search"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// LLMConfig configures the language model backend.
type LLMConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

// RerankerConfig configures the cross-encoder endpoint.
type RerankerConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// RetrievalConfig configures the retrieve/rerank depths.
type RetrievalConfig struct {
	NTopContent int  `toml:"n_top_content"`
	NTopRerank  int  `toml:"n_top_rerank"`
	UseReranker bool `toml:"use_reranker"`
}

// PromptsConfig configures the prompt template store.
type PromptsConfig struct {
	// Dir holds user-editable prompt files. Empty means
	// ~/.docuchat/prompts.
	Dir string `toml:"dir"`

	// Watch enables live reload of edited prompt files.
	Watch bool `toml:"watch"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Index: IndexConfig{
			Backend: "hnsw",
		},
		Embedding: EmbeddingConfig{
			Provider: string(domain.AIProviderOllama),
		},
		LLM: LLMConfig{
			Provider: string(domain.AIProviderOllama),
		},
		Retrieval: RetrievalConfig{
			NTopContent: 5,
			NTopRerank:  3,
			UseReranker: false,
		},
	}
}

// LoadConfig reads a TOML configuration file over the defaults. A
// missing file yields the defaults without error; a present file must
// parse and validate.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyEnv overlays environment variables on the loaded file. The
// environment wins for secrets so they can stay out of config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCUCHAT_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.Provider == string(domain.AIProviderOpenAI) && c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
		if c.LLM.Provider == string(domain.AIProviderOpenAI) && c.LLM.APIKey == "" {
			c.LLM.APIKey = v
		}
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", domain.ErrInvalidConfig, c.Server.Port)
	}

	switch c.Index.Backend {
	case "hnsw", "bruteforce":
	default:
		return fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidConfig, c.Index.Backend)
	}

	for _, p := range []struct {
		name     string
		provider string
		apiKey   string
	}{
		{"embedding", c.Embedding.Provider, c.Embedding.APIKey},
		{"llm", c.LLM.Provider, c.LLM.APIKey},
	} {
		provider := domain.AIProvider(p.provider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: unknown %s provider %q", domain.ErrInvalidConfig, p.name, p.provider)
		}
		if provider.RequiresAPIKey() && p.apiKey == "" {
			return fmt.Errorf("%w: %s provider %q requires an API key", domain.ErrInvalidConfig, p.name, p.provider)
		}
	}

	return c.RetrievalSettings().Validate()
}

// RetrievalSettings converts the retrieval section to domain settings.
func (c Config) RetrievalSettings() domain.RetrievalSettings {
	return domain.RetrievalSettings{
		NTopContent: c.Retrieval.NTopContent,
		NTopRerank:  c.Retrieval.NTopRerank,
		UseReranker: c.Retrieval.UseReranker,
	}
}
