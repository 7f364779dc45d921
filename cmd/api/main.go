package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/authapi/internal/accounts"
	"github.com/PaulBabatuyi/authapi/internal/config"
	"github.com/PaulBabatuyi/authapi/internal/content"
	"github.com/PaulBabatuyi/authapi/internal/data"
	"github.com/PaulBabatuyi/authapi/internal/db"
	"github.com/PaulBabatuyi/authapi/internal/logger"
	"github.com/PaulBabatuyi/authapi/internal/middleware"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("authapi", cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// stores bundles the persistence gateway and the state source behind it.
type stores struct {
	accounts data.AccountStore
	content  data.ContentStore
	state    db.StateSource
	close    func(context.Context) error
}

// openStores connects the configured driver.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			accounts: data.NewMemoryAccountStore(),
			content:  data.NewMemoryContentStore(),
			state:    db.Static(db.Connected),
			close:    func(context.Context) error { return nil },
		}, nil
	}

	dbClient, err := db.Connect(ctx, db.Options{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectRetries: cfg.ConnectRetries,
		ConnectBackoff: cfg.ConnectBackoff,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	// the unique email index is the only duplicate-registration guard
	if err := dbClient.CreateIndexes(ctx); err != nil {
		_ = dbClient.Close(context.Background())
		return nil, err
	}

	return &stores{
		accounts: data.NewMongoAccountStore(dbClient.UsersCollection()),
		content:  data.NewMongoContentStore(dbClient.VideosCollection()),
		state:    dbClient,
		close:    dbClient.Close,
	}, nil
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("store_driver", cfg.StoreDriver).
		Str("cors_mode", cfg.CORSMode).
		Bool("diagnostics", cfg.DiagnosticsEnabled()).
		Int("port", cfg.Port).
		Msg("configuration loaded")

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// small burst allows a couple of quick retries on register/login
	limiter := middleware.NewLimiterStore(cfg.RateLimitRPM, 3, time.Minute)
	defer limiter.Stop()

	srv := newServer(
		cfg,
		accounts.NewService(st.accounts, log),
		content.NewLookup(st.content),
		st.state,
		limiter,
		log,
	)
	app := srv.routes()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("http server listening")
		errCh <- app.Listen(cfg.HTTPAddr(), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
