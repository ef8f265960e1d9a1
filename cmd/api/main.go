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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/openstorehq/openstore-backend/api/routes"
	"github.com/openstorehq/openstore-backend/internal/admin"
	"github.com/openstorehq/openstore-backend/internal/auth"
	"github.com/openstorehq/openstore-backend/internal/categories"
	"github.com/openstorehq/openstore-backend/internal/identity"
	"github.com/openstorehq/openstore-backend/internal/merchants"
	"github.com/openstorehq/openstore-backend/internal/products"
	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/db"
	"github.com/openstorehq/openstore-backend/pkg/logger"
	"github.com/openstorehq/openstore-backend/pkg/metrics"
	"github.com/openstorehq/openstore-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	adminClient, err := db.NewAdmin(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin database", err)
		os.Exit(1)
	}
	defer func() {
		if err := adminClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing admin database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	userRepo := identity.NewRepository(dbClient.DB())
	merchantRepo := merchants.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	resolver, err := identity.NewResolver(cfg.JWT, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create token resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:            dbClient,
		UserRepoFactory:     auth.UserRepoFactory(identity.NewRepository),
		MerchantRepoFactory: auth.MerchantRepoFactory(merchants.NewRepository),
		CategoryRepoFactory: auth.CategoryRepoFactory(categories.NewRepository),
		PasswordConfig:      cfg.Password,
		JWTConfig:           cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	merchantService, err := merchants.NewService(merchantRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create merchant service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, merchantRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo, merchantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		UserRepo:     identity.NewRepository(adminClient.DB()),
		MerchantRepo: merchants.NewRepository(adminClient.DB()),
		CategoryRepo: categories.NewRepository(adminClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Registry:     registry,
		HTTPMetrics:  httpMetrics,
		Resolver:     resolver,
		UserRepo:     userRepo,
		MerchantRepo: merchantRepo,

		AuthService:     authService,
		RegisterService: registerService,
		MerchantService: merchantService,
		ProductService:  productService,
		CategoryService: categoryService,
		AdminService:    adminService,
	})

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
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
