package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billfold/billfold/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	billHandler *handlers.BillHandler,
	transactionHandler *handlers.TransactionHandler,
	budgetHandler *handlers.BudgetHandler,
	goalHandler *handlers.GoalHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth", authRateLimiter)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	splits := api.Group("/splits", authMiddleware)
	splits.POST("/preview", billHandler.Preview)
	splits.POST("/compute", billHandler.ComputeSplit)

	bills := api.Group("/bills", authMiddleware)
	bills.POST("", billHandler.Create)
	bills.GET("", billHandler.List)
	bills.GET("/:id", billHandler.Get)
	bills.DELETE("/:id", billHandler.Delete)
	bills.PATCH("/:id/participants/:participantId/payment-status", billHandler.SetPaymentStatus)
	bills.GET("/:id/settlement", billHandler.SettlementSummary)
	bills.GET("/:id/settlements/optimal", billHandler.OptimalSettlements)

	transactions := api.Group("/transactions", authMiddleware)
	transactions.POST("", transactionHandler.Record)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	budgets := api.Group("/budgets", authMiddleware)
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/:id", budgetHandler.Get)
	budgets.PUT("/:id", budgetHandler.Update)
	budgets.DELETE("/:id", budgetHandler.Delete)

	goals := api.Group("/goals", authMiddleware)
	goals.POST("", goalHandler.Create)
	goals.GET("", goalHandler.List)
	goals.GET("/:id", goalHandler.Get)
	goals.DELETE("/:id", goalHandler.Delete)
	goals.POST("/:id/contributions", goalHandler.Contribute)
	goals.POST("/:id/withdrawals", goalHandler.Withdraw)
	goals.POST("/:id/pause", goalHandler.Pause)
	goals.POST("/:id/resume", goalHandler.Resume)
}
