package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/validators"
)

type CreateCourseRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,min=3,max=50"`
	Subtitle    string  `json:"subtitle" form:"subtitle" validate:"required,max=200"`
	Description string  `json:"description" form:"description" validate:"required"`
	Category    string  `json:"category" form:"category" validate:"required"`
	Level       string  `json:"level" form:"level" validate:"required,oneof=beginner intermediate advanced"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
}

type UpdateCourseRequest struct {
	Title       string   `json:"title" form:"title" validate:"omitempty,min=3,max=50"`
	Subtitle    string   `json:"subtitle" form:"subtitle" validate:"omitempty,max=200"`
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category"`
	Level       string   `json:"level" form:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	IsPublished *bool    `json:"isPublished" form:"isPublished"`
}

type AddLectureRequest struct {
	Title       string `json:"title" form:"title" validate:"required,min=3,max=50"`
	Description string `json:"description" form:"description" validate:"required,max=200"`
	IsPreview   bool   `json:"isPreview" form:"isPreview"`
}

type EditLectureRequest struct {
	Title       string `json:"title" form:"title" validate:"omitempty,min=3,max=50"`
	Description string `json:"description" form:"description" validate:"omitempty,max=200"`
	IsPreview   *bool  `json:"isPreview" form:"isPreview"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func EditLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EditLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.CheckStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedLectureEdit", reqData)
		return c.Next()
	}
}
