// Package server assembles the application: configuration, infrastructure
// connections, repositories, services, listeners and routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kiko4ko1/magnetsbg-store/app/controllers"
	"github.com/Kiko4ko1/magnetsbg-store/app/listeners"
	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/routes"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/app/views"
	"github.com/Kiko4ko1/magnetsbg-store/config"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/cache"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/database"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/mail"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/router"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/workerpool"
)

const (
	mailWorkers     = 4
	shutdownTimeout = 10 * time.Second
)

// Server is the wired application.
type Server struct {
	Router *router.Router
	pool   *workerpool.Pool
}

// New builds the full dependency graph. Infrastructure that the store can
// run without (Redis, email) degrades with a warning; a broken database
// under ORDER_STORE=db is fatal.
func New() (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Setup()

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
	}
	mail.Configure()

	orderRepo, err := buildOrderRepo()
	if err != nil {
		return nil, err
	}

	catalog := repositories.NewCatalogRepository()
	payments := models.DefaultPaymentSettings()
	pricing := services.NewPricing()
	pool := workerpool.New(mailWorkers)

	orderSvc := services.NewOrderService(orderRepo, catalog, payments, pool)
	adminSvc := services.NewAdminService(auth.DefaultChecker())

	listeners.NewReceiptListener(catalog, pricing).Register()
	listeners.NewAdminAlertListener(pricing).Register()

	v, err := views.New(pricing)
	if err != nil {
		return nil, err
	}

	r := router.New()
	routes.Register(r, routes.Controllers{
		Store: controllers.NewStoreController(catalog, payments, pricing, v),
		Order: controllers.NewOrderController(orderSvc, catalog, v, r),
		Admin: controllers.NewAdminController(adminSvc, orderSvc, v),
	})

	return &Server{Router: r, pool: pool}, nil
}

func buildOrderRepo() (repositories.OrderRepository, error) {
	if config.OrderStore() != "db" {
		return repositories.NewMemoryOrderRepository(), nil
	}

	if err := database.Connect(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	repo, err := repositories.NewGormOrderRepository()
	if err != nil {
		return nil, err
	}
	logger.Info("using database order store", "driver", config.DatabaseDriver())
	return repo, nil
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// and pending notification sends.
func (s *Server) Start() error {
	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.pool.Shutdown()
	return nil
}
