package main

import (
	"log"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/routes"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		utils.Sugar.Fatalf("Error initializing database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(utils.Logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg)

	// Start server
	utils.Sugar.Infof("listening on :%s", cfg.ServerPort)
	utils.Sugar.Fatal(app.Listen(":" + cfg.ServerPort))
}
