package authRoutes

import (
	authController "greenfund/controllers/auth"
	authValidator "greenfund/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/verify-otp", authValidator.VerifyOTP(), authController.VerifyOTP)
}
