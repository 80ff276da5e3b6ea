package progressRoutes

import (
	"github.com/gofiber/fiber/v2"

	progressController "lms/controllers/progress"
	"lms/middleware"
)

// SetupProgressRoutes wires the per-user course progress endpoints.
func SetupProgressRoutes(app *fiber.App, ctrl *progressController.Controller) {
	progressGroup := app.Group("/api/v1/progress", middleware.JWTMiddleware)

	progressGroup.Get("/:courseId", ctrl.GetCourseProgress)
	progressGroup.Patch("/:courseId/lectures/:lectureId", ctrl.UpdateLectureProgress)
	progressGroup.Patch("/:courseId/complete", ctrl.MarkCourseComplete)
	progressGroup.Patch("/:courseId/reset", ctrl.ResetProgress)
}
