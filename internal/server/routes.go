package server

import (
	"github.com/labstack/echo/v4"

	"example.com/budget-tracker/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	scheduleHandler *handlers.ScheduleHandler,
	budgetHandler *handlers.BudgetHandler,
	budgetItemHandler *handlers.BudgetItemHandler,
	transactionHandler *handlers.TransactionHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	schedule := api.Group("/schedule", authMiddleware)
	schedule.GET("", scheduleHandler.List)
	schedule.GET("/summary", scheduleHandler.Summary)
	schedule.POST("/items", scheduleHandler.Create)
	schedule.PUT("/items/:id", scheduleHandler.Update)
	schedule.DELETE("/items/:id", scheduleHandler.Delete)

	budget := api.Group("/budget", authMiddleware)
	budget.GET("/:year/:month", budgetHandler.View)
	budget.POST("", budgetHandler.Create)
	budget.GET("/periods", budgetHandler.List)
	budget.PUT("/periods/:id", budgetHandler.Update)
	budget.DELETE("/periods/:id", budgetHandler.Delete)

	budget.POST("/periods/:id/income-items", budgetItemHandler.CreateIncomeItem)
	budget.PUT("/income-items/:id", budgetItemHandler.UpdateIncomeItem)
	budget.DELETE("/income-items/:id", budgetItemHandler.DeleteIncomeItem)

	budget.POST("/periods/:id/categories", budgetItemHandler.CreateCategory)
	budget.PUT("/categories/:id", budgetItemHandler.RenameCategory)
	budget.DELETE("/categories/:id", budgetItemHandler.DeleteCategory)

	budget.POST("/categories/:id/items", budgetItemHandler.CreateExpenseItem)
	budget.PUT("/items/:id", budgetItemHandler.UpdateExpenseItem)
	budget.DELETE("/items/:id", budgetItemHandler.DeleteExpenseItem)

	budget.POST("/income-items/:id/transactions", transactionHandler.CreateIncome)
	budget.DELETE("/income-transactions/:id", transactionHandler.DeleteIncome)
	budget.POST("/items/:id/transactions", transactionHandler.CreateExpense)
	budget.DELETE("/expense-transactions/:id", transactionHandler.DeleteExpense)
	budget.POST("/periods/:id/debt-payments", transactionHandler.CreateDebtPayment)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
