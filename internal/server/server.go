// Package server assembles the HTTP server: routes, middleware, and the
// dependency graph from the storage layer up through handlers.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/handlers"
	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/service"
	"github.com/billfold/billfold/internal/storage"
)

// New assembles the echo server with all routes and dependencies wired.
func New(cfg config.Config, logger *slog.Logger, store storage.Store) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	mirrors := service.NewMirrorWriter(store)
	budgetSync := service.NewBudgetSync(store)
	billService := service.NewBillService(store, mirrors, budgetSync)
	transactionService := service.NewTransactionService(store, budgetSync)
	budgetService := service.NewBudgetService(store)
	goalService := service.NewGoalService(store, mirrors, budgetSync)

	authHandler := handlers.NewAuthHandler(authenticator, jwtManager, store)
	billHandler := handlers.NewBillHandler(billService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	goalHandler := handlers.NewGoalHandler(goalService)

	registerRoutes(
		e,
		authHandler,
		billHandler,
		transactionHandler,
		budgetHandler,
		goalHandler,
		middleware.RequireAuth(jwtManager),
		authRateLimiter(cfg.Auth),
	)

	return e
}

// NewHTTPServer creates a net/http server with the configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})
	return echomw.RateLimiter(store)
}
