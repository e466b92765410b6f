package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/vod-highlights/config"
	"github.com/nijaru/vod-highlights/handlers/api"
	"github.com/nijaru/vod-highlights/logger"
	"github.com/nijaru/vod-highlights/repository"
	"github.com/nijaru/vod-highlights/repository/memory"
	"github.com/nijaru/vod-highlights/repository/sqlite"
	"github.com/nijaru/vod-highlights/services/controller"
	"github.com/nijaru/vod-highlights/services/highlights"
	"github.com/nijaru/vod-highlights/services/preferences"
	"github.com/nijaru/vod-highlights/share"
	"github.com/nijaru/vod-highlights/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log, closer, err := logger.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}
	defer closer.Close()

	ctx := context.Background()

	repo, db, err := openRepository(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	if db != nil {
		defer db.Close()
	}

	client, err := highlights.NewGeminiClient(ctx, highlights.Config{
		APIKey:            cfg.AI.APIKey,
		Model:             cfg.AI.Model,
		Temperature:       cfg.AI.Temperature,
		BaseURL:           cfg.AI.BaseURL,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		Burst:             1,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize highlight client")
	}

	ctrl := controller.New(client, preferences.NewStore(repo))
	if err := ctrl.Load(ctx); err != nil {
		log.WithError(err).Fatal("Failed to load preferences")
	}

	var exporter *share.Exporter
	if cfg.Spaces.Enabled() {
		spaces, err := storage.NewSpacesClient(ctx, cfg.Spaces)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Spaces client")
		}
		exporter = share.NewExporter(spaces)
		log.WithField("bucket", cfg.Spaces.Bucket).Info("Highlight export enabled")
	}

	server := api.NewServer(cfg,
		api.WithLogger(log),
		api.WithController(ctrl, exporter),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.WithError(err).Fatal("Server failed")
	case sig := <-shutdown:
		log.WithField("signal", sig.String()).Info("Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

// openRepository returns the SQLite store at cfg.Path, or an in-memory one
// when the path is ":memory:".
func openRepository(cfg config.DatabaseConfig) (repository.KVRepository, *sql.DB, error) {
	if cfg.Path == config.MemoryDBPath {
		logrus.Warn("Using in-memory preferences, ratings will not survive a restart")
		return memory.NewRepository(), nil, nil
	}

	dbCfg := sqlite.DefaultDBConfig()
	if cfg.MaxConnections > 0 {
		dbCfg.MaxConnections = cfg.MaxConnections
	}
	if cfg.MaxIdleConnections > 0 {
		dbCfg.MaxIdleConnections = cfg.MaxIdleConnections
	}
	if cfg.ConnMaxLifetime > 0 {
		dbCfg.ConnMaxLifetime = cfg.ConnMaxLifetime
	}

	db, err := sqlite.InitDB(cfg.Path, dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewRepository(db, dbCfg), db, nil
}
