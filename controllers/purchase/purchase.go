package purchaseController

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	"lms/utils"
	purchaseValidator "lms/validators/purchase"
)

// PaymentGateway is the external payment API used to register orders and
// verify callback signatures.
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*utils.RazorpayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type Controller struct {
	DB      *gorm.DB
	Gateway PaymentGateway
}

func New(db *gorm.DB, gateway PaymentGateway) *Controller {
	return &Controller{DB: db, Gateway: gateway}
}

// Checkout initiates a purchase: creates a pending record at the course's
// current price and registers a gateway order for it. A user who already
// holds a completed purchase for the course is rejected up front.
func (ctrl *Controller) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*purchaseValidator.CheckoutRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := ctrl.DB.First(&course, reqData.CourseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.CoursePurchase
	err := ctrl.DB.Where("course_id = ? AND user_id = ? AND status = ?",
		course.ID, userID, models.PurchaseCompleted).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You already own this course!", nil)
	}

	purchase := models.CoursePurchase{
		CourseID:      course.ID,
		UserID:        userID,
		Amount:        course.Price,
		Currency:      "INR",
		Status:        models.PurchasePending,
		PaymentMethod: "RAZORPAY",
	}
	if err := ctrl.DB.Create(&purchase).Error; err != nil {
		log.Printf("Error creating purchase: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	order, err := ctrl.Gateway.CreateOrder(
		int64(math.Round(course.Price*100)),
		purchase.Currency,
		strconv.FormatUint(uint64(purchase.ID), 10),
		map[string]string{
			"courseId": strconv.FormatUint(uint64(course.ID), 10),
			"userId":   strconv.FormatUint(uint64(userID), 10),
		},
	)
	if err != nil {
		log.Printf("Error creating gateway order for purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
	}

	if err := ctrl.DB.Model(&purchase).Update("payment_id", order.ID).Error; err != nil {
		log.Printf("Error storing order id on purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully.", fiber.Map{
		"order": order,
		"course": fiber.Map{
			"name":        course.Title,
			"description": course.Description,
		},
	})
}

// VerifyPayment handles the gateway callback. The signature is recomputed
// from the order and payment ids and compared in constant time; a mismatch
// changes nothing. On a match the pending purchase flips to completed and the
// enrollment is granted, all inside one transaction.
func (ctrl *Controller) VerifyPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*purchaseValidator.VerifyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !ctrl.Gateway.VerifySignature(reqData.RazorpayOrderID, reqData.RazorpayPaymentID, reqData.RazorpaySignature) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment Failed", nil)
	}

	var purchase models.CoursePurchase
	err := ctrl.DB.Where("payment_id = ? AND status = ?",
		reqData.RazorpayOrderID, models.PurchasePending).First(&purchase).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment Failed", nil)
	}

	now := time.Now()
	detail := models.PaymentDetail{
		OrderID:    reqData.RazorpayOrderID,
		PaymentID:  reqData.RazorpayPaymentID,
		VerifiedAt: &now,
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         models.PurchaseCompleted,
			"payment_id":     reqData.RazorpayPaymentID,
			"payment_detail": datatypes.NewJSONType(detail),
		}
		if err := tx.Model(&purchase).Updates(updates).Error; err != nil {
			return err
		}

		enrollment := models.Enrollment{
			UserID:     purchase.UserID,
			CourseID:   purchase.CourseID,
			EnrolledAt: now,
		}
		return tx.Where("user_id = ? AND course_id = ?", purchase.UserID, purchase.CourseID).
			FirstOrCreate(&enrollment).Error
	})
	if err != nil {
		log.Printf("Error completing purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully.", purchase)
}

// GetPurchaseStatus reports whether the user holds a completed purchase.
func (ctrl *Controller) GetPurchaseStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var count int64
	err = ctrl.DB.Model(&models.CoursePurchase{}).
		Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, models.PurchaseCompleted).
		Count(&count).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchase status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase status fetched.", fiber.Map{
		"purchased": count > 0,
	})
}

// GetPurchasedCourses lists the courses the user holds completed purchases
// for.
func (ctrl *Controller) GetPurchasedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	var purchases []models.CoursePurchase
	err := ctrl.DB.Preload("Course").
		Where("user_id = ? AND status = ?", userID, models.PurchaseCompleted).
		Find(&purchases).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchases!", nil)
	}

	courses := make([]*models.Course, 0, len(purchases))
	for _, p := range purchases {
		if p.Course != nil {
			courses = append(courses, p.Course)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched.", fiber.Map{
		"purchasedCourse": courses,
	})
}

// GetCourseDetailWithStatus returns the course along with whether the acting
// user holds access to it.
func (ctrl *Controller) GetCourseDetailWithStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	err = ctrl.DB.Preload("Instructor").
		Preload("Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("lecture_order asc") }).
		First(&course, courseID).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var count int64
	if err := ctrl.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", fiber.Map{
		"course":    course,
		"hasAccess": count > 0,
	})
}
