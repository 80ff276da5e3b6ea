package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	userController "lms/controllers/user"
	"lms/middleware"
	userValidator "lms/validators/user"
)

// SetupUserRoutes wires the account endpoints.
func SetupUserRoutes(app *fiber.App, ctrl *userController.Controller) {
	userGroup := app.Group("/api/v1/users")

	// Auth
	userGroup.Post("/signup", userValidator.Signup(), ctrl.Signup)
	userGroup.Post("/signin", userValidator.Signin(), ctrl.Signin)
	userGroup.Post("/signout", ctrl.Signout)

	// Profile
	userGroup.Get("/profile", middleware.JWTMiddleware, ctrl.GetProfile)
	userGroup.Patch("/profile", middleware.JWTMiddleware, userValidator.UpdateProfile(), ctrl.UpdateProfile)
	userGroup.Delete("/delete-account", middleware.JWTMiddleware, ctrl.DeleteAccount)

	// Password management
	userGroup.Patch("/change-password", middleware.JWTMiddleware, userValidator.ChangePassword(), ctrl.ChangePassword)
	userGroup.Post("/forgot-password", userValidator.ForgotPassword(), ctrl.ForgotPassword)
	userGroup.Post("/reset-password/:token", userValidator.ResetPassword(), ctrl.ResetPassword)
}
