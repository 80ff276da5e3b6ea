package purchaseRoutes

import (
	"github.com/gofiber/fiber/v2"

	purchaseController "lms/controllers/purchase"
	"lms/middleware"
	purchaseValidator "lms/validators/purchase"
)

// SetupPurchaseRoutes wires the purchase endpoints. The verify callback is
// unauthenticated: the gateway calls it, and the signature is the proof.
func SetupPurchaseRoutes(app *fiber.App, ctrl *purchaseController.Controller) {
	purchaseGroup := app.Group("/api/v1/purchases")

	purchaseGroup.Post("/checkout", middleware.JWTMiddleware, purchaseValidator.Checkout(), ctrl.Checkout)
	purchaseGroup.Post("/verify", purchaseValidator.Verify(), ctrl.VerifyPayment)

	purchaseGroup.Get("/", middleware.JWTMiddleware, ctrl.GetPurchasedCourses)
	purchaseGroup.Get("/course/:courseId/status", middleware.JWTMiddleware, ctrl.GetPurchaseStatus)
	purchaseGroup.Get("/course/:courseId/detail-with-status", middleware.JWTMiddleware, ctrl.GetCourseDetailWithStatus)
}
