package cli

import (
	"fmt"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/docuchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docuchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docuchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docuchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/reranker/tei"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/vectorindex/bruteforce"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/vectorindex/hnsw"
	"github.com/custodia-labs/docuchat/internal/chunker"
	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/services"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// application holds every assembled component of a running instance.
type application struct {
	cfg file.Config

	docStore      driven.DocumentStore
	chatStore     driven.ChatStore
	feedbackStore driven.FeedbackStore
	queryStore    driven.QueryStore

	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	reranker driven.Reranker
	prompts  *file.PromptStore

	chat      *services.ChatService
	ingestion *services.IngestionService
	search    *services.SearchService
	documents *services.DocumentService
	feedback  *services.FeedbackService

	closers []func() error
}

// buildApplication wires stores, providers and services from config.
func buildApplication(cfg file.Config) (*application, error) {
	app := &application{cfg: cfg}

	if err := app.buildStores(); err != nil {
		return nil, err
	}
	if err := app.buildProviders(); err != nil {
		return nil, err
	}

	settings := cfg.RetrievalSettings()
	app.chat = services.NewChatService(
		app.chatStore, app.docStore, app.index,
		app.embedder, app.llm, app.reranker, app.prompts, settings,
	)
	app.ingestion = services.NewIngestionService(
		chunker.New(), app.embedder, app.docStore, app.index,
	)
	app.search = services.NewSearchService(
		app.queryStore, app.docStore, app.index,
		app.embedder, app.llm, app.reranker, app.prompts, settings,
	)
	app.documents = services.NewDocumentService(app.docStore, app.index)
	app.feedback = services.NewFeedbackService(app.feedbackStore)

	return app, nil
}

func (app *application) buildStores() error {
	if app.cfg.Storage.DataDir == ":memory:" {
		logger.Info("using in-memory storage")
		app.docStore = memory.NewDocumentStore()
		app.chatStore = memory.NewChatStore()
		app.feedbackStore = memory.NewFeedbackStore()
		app.queryStore = memory.NewQueryStore()
		return nil
	}

	store, err := sqlite.NewStore(app.cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	logger.Info("database: %s", store.Path())

	app.docStore = store.DocumentStore()
	app.chatStore = store.ChatStore()
	app.feedbackStore = store.FeedbackStore()
	app.queryStore = store.QueryStore()
	app.closers = append(app.closers, store.Close)
	return nil
}

func (app *application) buildProviders() error {
	switch domain.AIProvider(app.cfg.Embedding.Provider) {
	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     app.cfg.Embedding.APIKey,
			BaseURL:    app.cfg.Embedding.BaseURL,
			Model:      app.cfg.Embedding.Model,
			Dimensions: app.cfg.Embedding.Dimensions,
		})
		if err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
		app.embedder = svc
	default:
		app.embedder = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    app.cfg.Embedding.BaseURL,
			Model:      app.cfg.Embedding.Model,
			Dimensions: app.cfg.Embedding.Dimensions,
		})
	}
	app.closers = append(app.closers, app.embedder.Close)

	switch domain.AIProvider(app.cfg.LLM.Provider) {
	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  app.cfg.LLM.APIKey,
			BaseURL: app.cfg.LLM.BaseURL,
			Model:   app.cfg.LLM.Model,
		})
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}
		app.llm = svc
	default:
		app.llm = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: app.cfg.LLM.BaseURL,
			Model:   app.cfg.LLM.Model,
		})
	}
	app.closers = append(app.closers, app.llm.Close)

	if app.cfg.Retrieval.UseReranker {
		reranker := tei.NewReranker(tei.Config{
			BaseURL: app.cfg.Reranker.BaseURL,
			Model:   app.cfg.Reranker.Model,
		})
		app.reranker = reranker
		app.closers = append(app.closers, reranker.Close)
	}

	if err := app.buildIndex(); err != nil {
		return err
	}

	prompts, err := file.NewPromptStore(app.cfg.Prompts.Dir)
	if err != nil {
		return fmt.Errorf("prompt store: %w", err)
	}
	app.prompts = prompts
	if app.cfg.Prompts.Watch {
		if err := prompts.Watch(); err != nil {
			logger.Warn("prompt watch disabled: %v", err)
		} else {
			app.closers = append(app.closers, prompts.Close)
		}
	}

	return nil
}

func (app *application) buildIndex() error {
	dim := app.embedder.Dimensions()

	var err error
	switch app.cfg.Index.Backend {
	case "bruteforce":
		app.index, err = bruteforce.New(dim)
	default:
		app.index, err = hnsw.New(dim, hnsw.Config{
			M:              app.cfg.Index.M,
			EfConstruction: app.cfg.Index.EfConstruction,
			EfSearch:       app.cfg.Index.EfSearch,
		})
	}
	if err != nil {
		return fmt.Errorf("vector index: %w", err)
	}
	logger.Debug("vector index: %s, %d dimensions", app.cfg.Index.Backend, dim)
	return nil
}

// close releases every held resource in reverse acquisition order.
func (app *application) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
}
