package main

import (
	"log"

	"greenfund/config"
	"greenfund/database"
	"greenfund/reward"
	adminRoutes "greenfund/routers/adminRoutes"
	authRoutes "greenfund/routers/authRoutes"
	transactionRoutes "greenfund/routers/transactionRoutes"
	userRoutes "greenfund/routers/userRoutes"
	"greenfund/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Daily reward accrual runs in the background, independent of requests
	job := reward.NewJob(database.Database.Db)
	utils.InitializeRewardScheduler(job)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	transactionRoutes.SetupTransactionRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
