package courseRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseController "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
)

// SetupCourseRoutes wires the catalog endpoints. Mutations are gated to
// instructors (admins included); reads only need a session.
func SetupCourseRoutes(app *fiber.App, db *gorm.DB, ctrl *courseController.Controller) {
	instructorOnly := middleware.RequireRoles(db, models.RoleInstructor, models.RoleAdmin)

	courseGroup := app.Group("/api/v1/courses")

	// Public
	courseGroup.Get("/published", ctrl.GetPublishedCourses)
	courseGroup.Get("/search", ctrl.SearchCourses)

	// Instructor
	courseGroup.Post("/", middleware.JWTMiddleware, instructorOnly, courseValidator.CreateCourse(), ctrl.CreateCourse)
	courseGroup.Get("/my-courses", middleware.JWTMiddleware, instructorOnly, ctrl.GetMyCourses)
	courseGroup.Patch("/:courseId", middleware.JWTMiddleware, instructorOnly, courseValidator.UpdateCourse(), ctrl.UpdateCourse)
	courseGroup.Delete("/:courseId", middleware.JWTMiddleware, instructorOnly, ctrl.RemoveCourse)

	// Course detail
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, ctrl.GetCourseDetails)

	// Lectures
	courseGroup.Post("/:courseId/lectures", middleware.JWTMiddleware, instructorOnly, courseValidator.AddLecture(), ctrl.AddLecture)
	courseGroup.Get("/:courseId/lectures", middleware.JWTMiddleware, ctrl.GetCourseLectures)
	courseGroup.Patch("/:courseId/lectures/:lectureId", middleware.JWTMiddleware, instructorOnly, courseValidator.EditLecture(), ctrl.EditLecture)
	courseGroup.Delete("/:courseId/lectures/:lectureId", middleware.JWTMiddleware, instructorOnly, ctrl.RemoveLecture)
}
