// Package main provides the API router setup.
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/civiclens/feedback-engine/cmd/feedback-api/handlers"
	"github.com/civiclens/feedback-engine/cmd/feedback-api/middleware"
	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/cache"
	"github.com/civiclens/feedback-engine/internal/config"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/sentiment"
	"github.com/civiclens/feedback-engine/internal/storage"
)

// NewRouter wires the analysis session, cache, storage, and handlers into
// the main API router. The returned cleanup closes the cache client and
// database connection.
func NewRouter(logger *observability.Logger, cfg *config.Config) (http.Handler, func(), error) {
	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to memory cache")
			cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			cacheClient = client
		}
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	var provider sentiment.Provider
	if cfg.Sentiment.Provider == "openai" {
		provider = sentiment.NewOpenAIProvider(cfg.Sentiment.OpenAIAPIKey, cfg.Sentiment.OpenAIModel)
	} else {
		provider = sentiment.NewLexiconProvider()
	}

	var scoreCache *analysis.ScoreCache
	if cfg.Analysis.CacheResults {
		scoreCache = analysis.NewScoreCache(cacheClient, logger, cfg.Cache.TTL)
	}

	session := analysis.NewSession(logger, provider, scoreCache, analysis.SessionConfig{
		MaxWorkers:      cfg.Analysis.MaxWorkers,
		BatchTimeout:    cfg.Analysis.BatchTimeout,
		MinSectionChars: cfg.Analysis.MinSectionChars,
		MaxVocabulary:   cfg.Analysis.MaxVocabularyTerms,
	})

	// Persistence is best-effort: without a database the API still serves
	// analysis, only run history is unavailable.
	var runRepo *storage.RunRepository
	var resultRepo *storage.ResultRepository
	db, err := storage.Open(context.Background(), storage.OpenOptions{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DatabaseDSN(),
		MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Database unavailable, run history disabled")
	} else {
		runRepo = storage.NewRunRepository(db)
		resultRepo = storage.NewResultRepository(db)
	}

	cleanup := func() {
		if err := cacheClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("Cache close failed")
		}
		if db != nil {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("Database close failed")
			}
		}
	}

	documentHandler := handlers.NewDocumentHandler(logger, session)
	analysisHandler := handlers.NewAnalysisHandler(logger, session, runRepo, resultRepo)
	scoringHandler := handlers.NewScoringHandler(logger, session)
	runsHandler := handlers.NewRunsHandler(logger, runRepo, resultRepo)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"feedback-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/document", func(r chi.Router) {
			r.Post("/", documentHandler.Load)
			r.Get("/", documentHandler.Current)
		})

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/comment", analysisHandler.Comment)
			r.Post("/batch", analysisHandler.Batch)
			r.Get("/summary", analysisHandler.Summary)
		})

		r.Route("/relevance", func(r chi.Router) {
			r.Post("/score", scoringHandler.ScoreRelevance)
		})

		r.Route("/intent", func(r chi.Router) {
			r.Post("/classify", scoringHandler.ClassifyIntent)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runsHandler.List)
			r.Get("/{runId}", runsHandler.Get)
		})
	})

	return r, cleanup, nil
}
