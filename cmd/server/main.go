package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/xtrntr/marketdash/internal/api"
	"github.com/xtrntr/marketdash/internal/cache"
	"github.com/xtrntr/marketdash/internal/config"
	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/db"
)

// loadDataset reads the marketplace snapshot from the configured source
func loadDataset(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*dataset.Dataset, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer database.Close(ctx)
		return database.LoadDataset(ctx)
	case config.SourceCSV:
		return dataset.Load(ctx, dataset.DirSource{Dir: cfg.DataDir}, log)
	default:
		return dataset.Load(ctx, dataset.NewHTTPSource(cfg.DataURL, cfg.HTTPRequestsPerSecond), log)
	}
}

// Main entry point: loads the dataset once and serves the dashboard
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load every table once; the snapshot is read-only from here on
	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	start := time.Now()
	ds, err := loadDataset(loadCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.WithFields(logrus.Fields{
		"source":   cfg.Source,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("Dataset loaded")

	// Report cache: redis when configured, otherwise in-process
	var reportCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		reportCache = rc
	}

	handler := api.NewHandler(ds, reportCache, cfg.CacheTTL, log)
	r := api.NewRouter(handler)

	// Enable CORS around the routed mux
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Server shutdown failed")
		}
	}()

	log.Infof("Starting server on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
