package userRoutes

import (
	userController "greenfund/controllers/user"
	"greenfund/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	userGroup.Put("/plan", middleware.JWTMiddleware, userController.UpdatePlan)
}
