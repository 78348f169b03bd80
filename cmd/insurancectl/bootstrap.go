package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/cache"
	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/db"
	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/extract"
	"github.com/monish1402/insurance-llm-system1/pkg/openai"
	"github.com/monish1402/insurance-llm-system1/pkg/processor"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	gormstore "github.com/monish1402/insurance-llm-system1/pkg/server/store/gorm"
)

// app bundles the wired services shared by the server and ingest commands.
type app struct {
	cfg *config.Config
	db  *gorm.DB

	cache *cache.Cache
	llm   *openai.Client

	documents *gormstore.DocumentsStore
	chunks    *gormstore.ChunksStore
	queryLogs *gormstore.QueryLogStore
	sessions  *gormstore.SessionsStore
	health    *gormstore.HealthStore

	processor *processor.Service
	search    *search.Service
	engine    *decision.Engine
}

func newApp(cfg *config.Config, workers int) (*app, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.ConnectWithRetry(db.Config{URL: cfg.DatabaseURL, Debug: cfg.Debug}, time.Minute)
	if err != nil {
		return nil, err
	}

	embCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("bad REDIS_URL: %w", err)
	}

	var llm *openai.Client
	if cfg.OpenAIAPIKey != "" {
		llm, err = openai.NewClient(openai.Config{
			APIKey:         cfg.OpenAIAPIKey,
			ChatModel:      cfg.OpenAIModel,
			EmbeddingModel: cfg.EmbeddingModel,
			MaxTokens:      cfg.OpenAIMaxTokens,
			Temperature:    cfg.OpenAITemperature,
		})
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("OPENAI_API_KEY is not set; embeddings and summaries are disabled")
	}

	a := &app{
		cfg:       cfg,
		db:        database,
		cache:     embCache,
		llm:       llm,
		documents: gormstore.NewDocumentsStore(database),
		chunks:    gormstore.NewChunksStore(database),
		queryLogs: gormstore.NewQueryLogStore(database),
		sessions:  gormstore.NewSessionsStore(database),
		health:    gormstore.NewHealthStore(database),
	}

	extractor := extract.NewExtractor(cfg.ChunkSize, cfg.ChunkOverlap)

	// A nil *openai.Client must stay a nil interface for the services to
	// detect that embeddings are disabled
	var procEmbedder processor.Embedder
	var searchEmbedder search.Embedder
	var summarizer decision.Summarizer
	if llm != nil {
		procEmbedder = llm
		searchEmbedder = llm
		summarizer = llm
	}

	a.processor = processor.NewService(extractor, procEmbedder, embCache, a.documents, a.chunks, workers)
	a.search = search.NewService(searchEmbedder, embCache, a.chunks, a.documents, cfg.SimilarityThreshold)
	a.engine = decision.NewEngine(summarizer)

	return a, nil
}
