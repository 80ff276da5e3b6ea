package mediaController

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/utils"
)

// MediaStore is the media delegate behind the upload endpoint.
type MediaStore interface {
	Upload(filePath string) (*utils.UploadResult, error)
}

type Controller struct {
	Media MediaStore
}

func New(media MediaStore) *Controller {
	return &Controller{Media: media}
}

// UploadMedia accepts a multipart file, pushes it to the media host and
// returns the asset id + URL pair.
func (ctrl *Controller) UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file provided!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
	if err != nil {
		log.Printf("Error saving upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process file!", nil)
	}
	defer utils.RemoveLocalFile(filePath)

	result, err := ctrl.Media.Upload(filePath)
	if err != nil {
		log.Printf("Error uploading media: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully.", result)
}
