package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/popmakeup/popmakeup-backend/api/routes"
	"github.com/popmakeup/popmakeup-backend/internal/auth"
	"github.com/popmakeup/popmakeup-backend/internal/coupons"
	"github.com/popmakeup/popmakeup-backend/internal/lookup"
	product "github.com/popmakeup/popmakeup-backend/internal/products"
	"github.com/popmakeup/popmakeup-backend/internal/redemption"
	"github.com/popmakeup/popmakeup-backend/internal/reservations"
	"github.com/popmakeup/popmakeup-backend/internal/stocks"
	"github.com/popmakeup/popmakeup-backend/internal/users"
	"github.com/popmakeup/popmakeup-backend/pkg/auth/session"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	"github.com/popmakeup/popmakeup-backend/pkg/db"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/metrics"
	"github.com/popmakeup/popmakeup-backend/pkg/migrate"
	"github.com/popmakeup/popmakeup-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	workflowMetrics := metrics.NewWorkflowMetrics(prometheus.DefaultRegisterer)
	resolver := lookup.NewResolver(dbClient.DB())

	services, err := buildServices(cfg, logg, loc, dbClient, resolver, sessionManager, workflowMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			promhttp.Handler(),
			services,
		),
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if shutdownErr != nil {
		logg.Error(ctx, "error during shutdown", shutdownErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	loc *time.Location,
	dbClient *db.Client,
	resolver *lookup.Resolver,
	sessionManager *session.Manager,
	workflowMetrics *metrics.WorkflowMetrics,
) (routes.Services, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	stockService, err := stocks.NewService(stocks.ServiceParams{
		Resolver:   resolver,
		Repository: stocks.NewRepository(dbClient.DB()),
		Logger:     logg,
		Metrics:    workflowMetrics,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productService, err := product.NewService(resolver)
	if err != nil {
		return routes.Services{}, err
	}

	reservationService, err := reservations.NewService(reservations.ServiceParams{
		DB:       dbClient,
		Resolver: resolver,
		Logger:   logg,
		Metrics:  workflowMetrics,
		Location: loc,
	})
	if err != nil {
		return routes.Services{}, err
	}

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), logg, workflowMetrics)
	if err != nil {
		return routes.Services{}, err
	}

	redemptionService, err := redemption.NewService(redemption.ServiceParams{
		DB:       dbClient,
		Logger:   logg,
		Metrics:  workflowMetrics,
		Location: loc,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:         authService,
		Register:     registerService,
		Stocks:       stockService,
		Products:     productService,
		Reservations: reservationService,
		Coupons:      couponService,
		Redemption:   redemptionService,
	}, nil
}
