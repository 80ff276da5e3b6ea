package purchaseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/validators"
)

type CheckoutRequest struct {
	CourseID uint `json:"courseId" validate:"required"`
}

// VerifyRequest is the gateway callback payload. Field names follow the
// gateway's wire format.
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckoutRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedCheckout", reqData)
		return c.Next()
	}
}

func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}
