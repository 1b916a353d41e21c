package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/hookbridge/hookbridge/internal/config"
	"github.com/hookbridge/hookbridge/internal/db"
	"github.com/hookbridge/hookbridge/internal/handlers"
	"github.com/hookbridge/hookbridge/internal/ingest"
	"github.com/hookbridge/hookbridge/internal/logger"
	"github.com/hookbridge/hookbridge/internal/media"
	fsprovider "github.com/hookbridge/hookbridge/internal/media/providers/fs"
	s3provider "github.com/hookbridge/hookbridge/internal/media/providers/s3"
	"github.com/hookbridge/hookbridge/internal/message"
	"github.com/hookbridge/hookbridge/internal/server"
	"github.com/hookbridge/hookbridge/internal/webhook"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBPool,
			provideStore,
			provideStorageProvider,
			provideGraphClient,
			provideMediaService,
			provideOrchestrator,
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideMessagesHandler),
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { pool.Close(); return nil }})
	return pool, nil
}

func provideStore(log *slog.Logger, pool *pgxpool.Pool) *message.Store {
	return message.NewStore(log, pool)
}

func provideStorageProvider(cfg config.Config) (media.StorageProvider, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return s3provider.New(cfg.Storage.S3)
	case "fs":
		return fsprovider.New(cfg.Storage.DataRoot)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func provideGraphClient(log *slog.Logger, cfg config.Config) *media.GraphClient {
	wa := cfg.WhatsApp
	return media.NewGraphClient(log, wa.GraphBaseURL, wa.GraphVersion, wa.AccessToken,
		time.Duration(wa.ResolveTimeoutSeconds)*time.Second)
}

func provideMediaService(log *slog.Logger, client *media.GraphClient, provider media.StorageProvider, cfg config.Config) *media.Service {
	return media.NewService(log, client, provider,
		time.Duration(cfg.WhatsApp.DownloadTimeoutSeconds)*time.Second)
}

func provideOrchestrator(lc fx.Lifecycle, log *slog.Logger, store *message.Store, mediaService *media.Service, cfg config.Config) *ingest.Orchestrator {
	o := ingest.NewOrchestrator(log, store, mediaService, cfg.Ingest.StoreAttempts)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return o.Shutdown(ctx) }})
	return o
}

func provideWebhookHandler(log *slog.Logger, cfg config.Config, orchestrator *ingest.Orchestrator) *webhook.Handler {
	return webhook.NewHandler(log, cfg.WhatsApp.VerifyToken, orchestrator)
}

func provideMessagesHandler(log *slog.Logger, store *message.Store) *handlers.MessagesHandler {
	return handlers.NewMessagesHandler(log, store)
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Handlers...)
}

func startServer(lc fx.Lifecycle, s *server.Server, log *slog.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
