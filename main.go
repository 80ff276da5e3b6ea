package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"lms/config"
	courseController "lms/controllers/course"
	healthController "lms/controllers/health"
	mediaController "lms/controllers/media"
	progressController "lms/controllers/progress"
	purchaseController "lms/controllers/purchase"
	userController "lms/controllers/user"
	"lms/database"
	"lms/middleware"
	"lms/routers/courseRoutes"
	"lms/routers/mediaRoutes"
	"lms/routers/progressRoutes"
	"lms/routers/purchaseRoutes"
	"lms/routers/userRoutes"
	"lms/utils"
)

func main() {
	config.LoadConfig()

	db, err := database.New(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	media := utils.NewCloudinaryClient(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryApiKey,
		config.AppConfig.CloudinaryApiSecret,
	)
	gateway := utils.NewRazorpayClient(
		config.AppConfig.RazorpayKeyID,
		config.AppConfig.RazorpayKeySecret,
	)
	mailer := utils.NewEmailService(
		config.AppConfig.SendgridApiKey,
		config.AppConfig.EmailSender,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    100 * 1024 * 1024, // lecture videos
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.ClientURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	userRoutes.SetupUserRoutes(app, userController.New(db.Db, media, mailer))
	courseRoutes.SetupCourseRoutes(app, db.Db, courseController.New(db.Db, media))
	progressRoutes.SetupProgressRoutes(app, progressController.New(db.Db))
	purchaseRoutes.SetupPurchaseRoutes(app, purchaseController.New(db.Db, gateway))
	mediaRoutes.SetupMediaRoutes(app, mediaController.New(media))
	app.Get("/health", healthController.New(db).Health)

	go func() {
		log.Printf("Server is running on port %s", config.AppConfig.Port)
		if err := app.Listen(":" + config.AppConfig.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Database connection terminated")
}
