package transactionRoutes

import (
	transactionController "greenfund/controllers/transaction"
	"greenfund/middleware"
	transactionValidator "greenfund/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupTransactionRoutes(app *fiber.App) {
	txGroup := app.Group("/transactions")

	// User routes
	txGroup.Get("/balance", middleware.JWTMiddleware, transactionController.GetBalance)
	txGroup.Post("/deposit", transactionValidator.CreateDeposit(), middleware.JWTMiddleware, transactionController.CreateDeposit)
	txGroup.Post("/withdraw", transactionValidator.CreateWithdrawal(), middleware.JWTMiddleware, transactionController.CreateWithdrawal)
	txGroup.Get("/deposits", middleware.JWTMiddleware, transactionController.GetDeposits)
	txGroup.Get("/withdrawals", middleware.JWTMiddleware, transactionController.GetWithdrawals)

	// Admin routes
	adminGroup := txGroup.Group("/admin")
	adminGroup.Get("/deposits/pending", middleware.JWTMiddleware, transactionController.GetPendingDeposits)
	adminGroup.Get("/withdrawals/pending", middleware.JWTMiddleware, transactionController.GetPendingWithdrawals)
	adminGroup.Post("/deposits/resolve", transactionValidator.ResolveDeposit(), middleware.JWTMiddleware, transactionController.ResolveDeposit)
	adminGroup.Post("/withdrawals/resolve", transactionValidator.ResolveWithdrawal(), middleware.JWTMiddleware, transactionController.ResolveWithdrawal)
}
