package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/ai"
	memorycache "github.com/custodia-labs/askdoc/internal/adapters/driven/cache/memory"
	rediscache "github.com/custodia-labs/askdoc/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/metrics"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdoc/internal/connectors/filesystem"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/services"
	"github.com/custodia-labs/askdoc/internal/extractors"
	"github.com/custodia-labs/askdoc/internal/logger"
	"github.com/custodia-labs/askdoc/internal/postprocessors"
)

// stores holds the persistence adapters chosen for one run.
type stores struct {
	documents driven.DocumentStore
	answers   driven.AnswerLog
	vectors   driven.VectorStore
}

// bootstrap wires every adapter into the services used by the CLI.
// Optional backends that fail to start are reported as warnings and the
// tiers that need them are left out.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultConfigDir(); err != nil {
			return nil, err
		}
	}

	envDirs := []string{dir}
	if cwd, err := os.Getwd(); err == nil {
		envDirs = []string{cwd, dir}
	}
	if err := file.LoadEnv(envDirs...); err != nil {
		logger.Warn("loading .env: %v", err)
	}

	var configStore driven.ConfigStore
	if opts.Ephemeral {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore, file.EnvOverrides())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("settings: %v", err)
	}

	var (
		closers  []func()
		warnings []string
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	st, err := openStores(ctx, dir, opts.Ephemeral, settings, &closers, &warnings)
	if err != nil {
		closeAll()
		return nil, err
	}

	prom := metrics.NewPrometheus()
	cache := openCache(ctx, settings, &closers, &warnings)

	providers := ai.Init(settings, prom)
	warnings = append(warnings, providers.Warnings...)
	closers = append(closers, providers.Close)

	var (
		embedder  driven.EmbeddingService
		cacheSize func(ctx context.Context) int
	)
	if providers.EmbeddingService != nil {
		caching := services.NewCachingEmbedder(providers.EmbeddingService, cache, prom)
		embedder, cacheSize = caching, caching.CacheLen
	}

	var prompts driven.PromptStore
	if !opts.Ephemeral {
		promptStore, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
		if err != nil {
			warnings = append(warnings, "custom prompts disabled: "+err.Error())
		} else {
			prompts = promptStore
		}
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	strategies, tierWarnings, err := services.BuildStrategies(services.TierDeps{
		Settings: settings,
		Pipelines: func(maxLength int) (driven.PostProcessorPipeline, error) {
			return postprocessors.ChunkingPipeline(registry, maxLength)
		},
		Embedder:    embedder,
		LLM:         providers.LLMService,
		VectorStore: st.vectors,
		Prompts:     prompts,
		Loader:      services.DocumentContentLoader(st.documents),
	})
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("building tiers: %w", err)
	}
	warnings = append(warnings, tierWarnings...)

	qa := services.NewOrchestrator(strategies, prom)

	docOpts := []services.DocumentOption{
		services.WithAsyncProcessing(opts.AsyncDocuments || settings.Documents.Async),
	}
	if providers.LLMService != nil {
		summaryOpts := driven.ChatOptions{MaxTokens: settings.LLM.MaxTokens, Temperature: settings.LLM.Temperature}
		docOpts = append(docOpts, services.WithSummariser(
			services.NewSummariser(providers.LLMService, prompts, summaryOpts)))
	}

	formats := extractors.NewDefaultRegistry()
	documents := services.NewDocumentService(st.documents, st.answers, formats, qa, docOpts...)
	chat := services.NewChatDispatcher(documents, services.DefaultSessionBuffer)
	folders := services.NewFolderSync(documents, func(path string) driven.DocumentSource {
		return filesystem.New(path, filesystem.WithMIMETypes(formats.SupportedMIMETypes()))
	})

	logger.Debug("Active tiers: %v", qa.Tiers())

	return &cli.Services{
		Document:  documents,
		Chat:      chat,
		Settings:  settingsService,
		QA:        qa,
		Folders:   folders,
		CacheSize: cacheSize,
		Metrics:   prom.Handler(),
		Warnings:  warnings,
		Close: func() {
			chat.Wait()
			documents.Wait()
			closeAll()
		},
	}, nil
}

// openStores picks document, answer log and vector storage. Ephemeral runs
// keep everything in memory.
func openStores(
	ctx context.Context,
	dir string,
	ephemeral bool,
	settings *domain.AppSettings,
	closers *[]func(),
	warnings *[]string,
) (*stores, error) {
	st := &stores{}

	var local *sqlite.Store
	if ephemeral {
		st.documents = memory.NewDocumentStore()
		st.answers = memory.NewAnswerLog()
	} else {
		db, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		*closers = append(*closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database: %v", err)
			}
		})
		local = db
		st.documents = db.DocumentStore()
		st.answers = db.AnswerLog()
	}

	switch settings.Vector.Backend {
	case domain.VectorBackendSQLite:
		if local != nil {
			st.vectors = local.VectorStore()
		} else {
			st.vectors = memory.NewVectorStore()
		}
	case domain.VectorBackendMemory:
		st.vectors = memory.NewVectorStore()
	case domain.VectorBackendPostgres:
		pg, err := postgres.NewVectorStore(ctx, postgres.Config{
			DSN:        settings.Vector.DSN,
			Dimensions: domain.EmbeddingDimensions()[settings.Embedding.Model],
		})
		if err != nil {
			*warnings = append(*warnings, "postgres vector store unavailable: "+err.Error())
			break
		}
		*closers = append(*closers, func() {
			if err := pg.Close(); err != nil {
				logger.Warn("closing postgres: %v", err)
			}
		})
		st.vectors = pg
	case domain.VectorBackendNone:
	}

	return st, nil
}

// openCache returns the embedding cache, falling back to memory when Redis
// cannot be reached.
func openCache(
	ctx context.Context,
	settings *domain.AppSettings,
	closers *[]func(),
	warnings *[]string,
) driven.EmbeddingCache {
	if settings.Cache.Backend != domain.CacheBackendRedis {
		return memorycache.New()
	}

	rc, err := rediscache.New(ctx, rediscache.Config{
		Addr:     settings.Cache.RedisAddr,
		Password: settings.Cache.RedisPassword,
		DB:       settings.Cache.RedisDB,
		Model:    settings.Embedding.Model,
	})
	if err != nil {
		*warnings = append(*warnings, "redis cache unavailable, using memory: "+err.Error())
		return memorycache.New()
	}
	*closers = append(*closers, func() {
		if err := rc.Close(); err != nil {
			logger.Warn("closing redis: %v", err)
		}
	})
	return rc
}
