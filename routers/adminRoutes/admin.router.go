package adminRoutes

import (
	adminController "greenfund/controllers/admin"
	"greenfund/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Get("/reward-rates", middleware.JWTMiddleware, adminController.ListRewardRates)
	adminGroup.Post("/reward-rates", middleware.JWTMiddleware, adminController.UpsertRewardRate)

	adminGroup.Get("/non-reward-days", middleware.JWTMiddleware, adminController.ListNonRewardDays)
	adminGroup.Post("/non-reward-days", middleware.JWTMiddleware, adminController.AddNonRewardDay)
	adminGroup.Delete("/non-reward-days", middleware.JWTMiddleware, adminController.DeleteNonRewardDay)

	adminGroup.Post("/reward-runs/trigger", middleware.JWTMiddleware, adminController.TriggerRewardRun)
	adminGroup.Get("/reward-runs", middleware.JWTMiddleware, adminController.ListRewardRuns)
}
