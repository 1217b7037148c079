package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/dlages/filescope/batch"
	"github.com/dlages/filescope/config"
	"github.com/dlages/filescope/database"
	"github.com/dlages/filescope/handlers"
	"github.com/dlages/filescope/logging"
	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/realtime"
	"github.com/dlages/filescope/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to set up logging: %v", err)
	}

	storagePaths := []string{cfg.ExportsPath, cfg.StripsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		if err := os.MkdirAll(p, 0755); err != nil {
			logger.Fatal().Str("path", p).Err(err).Msg("failed to create storage directory")
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := database.AutoMigrateModels(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	extractor := metadata.Default()
	records := repository.NewRecordRepository(db)
	processor := batch.NewProcessor(extractor, cfg.BatchWorkers, cfg.BatchQueueSize, true, logger)

	hub := realtime.NewHub(logger)
	go hub.Run()

	metadataHandler := &handlers.MetadataHandler{Extractor: extractor, Records: records, Logger: logger}
	analysisHandler := &handlers.AnalysisHandler{ChunkSize: cfg.EntropyChunkSize, MinStringLength: cfg.MinStringLength, Logger: logger}
	compareHandler := &handlers.CompareHandler{Extractor: extractor, Logger: logger}
	filterHandler := &handlers.FilterHandler{Processor: processor}
	batchHandler := &handlers.BatchHandler{Processor: processor, Hub: hub, Records: records, Logger: logger}
	exportHandler := &handlers.ExportHandler{Processor: processor, ExportsDir: cfg.ExportsPath, Logger: logger}
	stripHandler := &handlers.StripHandler{StripsDir: cfg.StripsPath, Logger: logger}
	catalogHandler := &handlers.CatalogHandler{Records: records, Logger: logger}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/metadata", metadataHandler.Extract)
		r.Post("/compare", compareHandler.Compare)
		r.Post("/filter", filterHandler.Apply)
		r.Post("/export", exportHandler.Export)
		r.Post("/strip", stripHandler.Strip)

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/entropy", analysisHandler.Entropy)
			r.Post("/strings", analysisHandler.Strings)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/files", batchHandler.AddFiles)
			r.Post("/start", batchHandler.Start)
			r.Post("/stop", batchHandler.Stop)
			r.Post("/clear", batchHandler.Clear)
			r.Get("/status", batchHandler.Status)
			r.Get("/results", batchHandler.Results)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/record", catalogHandler.Get)
			r.Delete("/record", catalogHandler.Delete)
			r.Post("/search", catalogHandler.Search)
			r.Get("/duplicates", catalogHandler.Duplicates)
		})
	})

	r.Get("/ws", hub.ServeWS)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	processor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
