package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/bootstrap"
	"github.com/actuallystonmai/recommendation-lambda/internal/config"
	"github.com/actuallystonmai/recommendation-lambda/internal/logger"
	"github.com/actuallystonmai/recommendation-lambda/internal/repository"
	"github.com/actuallystonmai/recommendation-lambda/internal/router"
	"github.com/actuallystonmai/recommendation-lambda/seeds"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	ctx := context.Background()

	// ------------ Subcommands ---------------
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed-embeddings":
			if err := seedEmbeddings(os.Args[2:]); err != nil {
				log.Fatal().Err(err).Msg("failed to seed embeddings")
			}
			return
		case "migrate-down":
			if err := migrateDown(ctx, cfg); err != nil {
				log.Fatal().Err(err).Msg("failed to migrate down")
			}
			log.Info().Msg("migrations dropped")
			return
		}
	}

	// ------------ Initialization ---------------
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer app.Close()

	// ------------ Run Migrations ---------------
	if app.Repository != nil {
		if err := app.Repository.MigrateUp(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate up")
		}
		log.Info().Msg("migrations applied successfully")
	}

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(app.Handler, app.Metrics.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

// seed-embeddings <path> [rows] [cols]
func seedEmbeddings(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: server seed-embeddings <path> [rows] [cols]")
	}
	rows, cols := 943, 64
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return errors.New("rows must be a positive integer")
		}
		rows = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return errors.New("cols must be a positive integer")
		}
		cols = n
	}
	return seeds.Setup(args[0], rows, cols)
}

func migrateDown(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	pool, err := repository.Connect(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		return err
	}
	defer pool.Close()
	return repository.NewRepository(pool).MigrateDown(ctx)
}
