package main

import (
	"log"

	"elearn/config"
	"elearn/database"
	authRoutes "elearn/routers/authRoutes"
	courseRoutes "elearn/routers/courseRoutes"
	enrollmentRoutes "elearn/routers/enrollmentRoutes"
	userRoutes "elearn/routers/userRoutes"
	walletRoutes "elearn/routers/walletRoutes"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Periodic re-count of course enrollment counters
	utils.InitializeCounterReconciler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	walletRoutes.SetupWalletRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
