package healthController

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
)

type Controller struct {
	DB *database.Database
}

func New(db *database.Database) *Controller {
	return &Controller{DB: db}
}

func (ctrl *Controller) Health(c *fiber.Ctx) error {
	status := ctrl.DB.Status()
	code := fiber.StatusOK
	if !status.Connected {
		code = fiber.StatusServiceUnavailable
	}
	return middleware.JsonResponse(c, code, status.Connected, "Health check", fiber.Map{
		"database": status,
	})
}
