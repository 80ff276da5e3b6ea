package mediaRoutes

import (
	"github.com/gofiber/fiber/v2"

	mediaController "lms/controllers/media"
	"lms/middleware"
)

// SetupMediaRoutes wires the direct upload endpoint.
func SetupMediaRoutes(app *fiber.App, ctrl *mediaController.Controller) {
	mediaGroup := app.Group("/api/v1/media")

	mediaGroup.Post("/upload", middleware.JWTMiddleware, ctrl.UploadMedia)
}
