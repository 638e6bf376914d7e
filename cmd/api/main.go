package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-dashboard/internal/api/http"
	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/cache"
	"github.com/spec-kit/helpdesk-dashboard/internal/config"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/observability"
	"github.com/spec-kit/helpdesk-dashboard/internal/persistence"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	"github.com/spec-kit/helpdesk-dashboard/internal/seed"
	"github.com/spec-kit/helpdesk-dashboard/internal/service"
	"github.com/spec-kit/helpdesk-dashboard/internal/trends"
	"github.com/spec-kit/helpdesk-dashboard/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tickets, err := loadSeed(cfg.Store)
	if err != nil {
		logger.Fatal("failed to load seed tickets", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	store, err := buildStore(ctx, cfg, pg, tickets, logger)
	if err != nil {
		logger.Fatal("failed to build ticket store", zap.Error(err))
	}

	var rd *persistence.Redis
	if cfg.Cache.Enabled {
		rd = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer rd.Close()
		store = repository.NewCachedTicketStore(store, cache.NewRedisCache(rd.Client, cfg.App.Name), cfg.Cache.TTL(), logger)
	}

	identity, err := buildIdentityProvider(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to configure identity provider", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	workerCtx, stopWorker := context.WithCancel(ctx)
	notifications := worker.StartNotificationWorker(workerCtx, dispatcher,
		service.NewNotificationService(logger, cfg.Notification), logger, service.NotifiedEvents...)

	if cfg.Trends.APIKey == "" {
		logger.Warn("TRENDS_API_KEY not set; trend reports will fail")
	}
	analyzer := trends.NewAnalyzer(trends.NewClient(nil, cfg.Trends, logger), logger,
		trends.WithIdleTTL(time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	trendService := service.NewTrendService(service.TrendDependencies{
		Store:      store,
		Analyzer:   analyzer,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Identity:     identity,
		TokenManager: tokenManager,
		Sessions:     trendService,
		Logger:       logger,
	})
	statusService := service.NewStatusService(service.StatusDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	dashboardService := service.NewDashboardService(store)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    rd,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(dashboardService, statusService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Trends:         handlers.NewTrendsHandler(trendService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	stopWorker()
	notifications.Wait()
}

func loadSeed(cfg config.StoreConfig) ([]domain.Ticket, error) {
	if cfg.SeedFile != "" {
		return seed.FromFile(cfg.SeedFile)
	}
	return seed.Tickets()
}

// buildStore picks Postgres when a pool is available and the in-memory store
// otherwise.
func buildStore(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, tickets []domain.Ticket, logger *zap.Logger) (repository.TicketStore, error) {
	if !pg.Enabled() {
		mem, err := repository.NewMemoryTicketStore(tickets,
			repository.WithLatency(cfg.Store.ListLatency(), cfg.Store.UpdateLatency()))
		if err != nil {
			return nil, err
		}
		return mem, nil
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			return nil, err
		}
	}

	store := repository.NewPostgresTicketStore(pg.Pool)
	if cfg.Postgres.SeedIfEmpty {
		inserted, err := store.SeedIfEmpty(ctx, tickets)
		if err != nil {
			return nil, err
		}
		if inserted > 0 {
			logger.Info("seeded tickets table", zap.Int("count", inserted))
		}
	}
	return store, nil
}

func buildIdentityProvider(cfg config.AuthConfig, logger *zap.Logger) (auth.IdentityProvider, error) {
	switch cfg.Provider {
	case config.AuthProviderFirebase:
		if cfg.IdentityAPIKey == "" {
			logger.Warn("AUTH_IDENTITY_API_KEY not set; sign-in will fail")
		}
		client := &http.Client{Timeout: 10 * time.Second}
		return auth.NewFirebaseProvider(client, cfg.IdentityBaseURL, cfg.IdentityAPIKey), nil
	default:
		if len(cfg.StaticUsers) == 0 {
			logger.Warn("AUTH_STATIC_USERS is empty; nobody can sign in")
		}
		provider, err := auth.NewStaticProvider(cfg.StaticUsers)
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
