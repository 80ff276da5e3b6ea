package courseController

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	"lms/utils"
	courseValidator "lms/validators/course"
)

func (ctrl *Controller) AddLecture(c *fiber.Ctx) error {
	course, ok := ctrl.ownedCourse(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedLecture").(*courseValidator.AddLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	file, err := c.FormFile("video")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Video file is required!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
	if err != nil {
		log.Printf("Error saving video upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process video!", nil)
	}
	defer utils.RemoveLocalFile(filePath)

	result, err := ctrl.Media.Upload(filePath)
	if err != nil {
		log.Printf("Error uploading video: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
	}

	var count int64
	if err := ctrl.DB.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	lecture := models.Lecture{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    result.SecureURL,
		PublicID:    result.PublicID,
		Duration:    result.Duration,
		IsPreview:   reqData.IsPreview,
		Order:       int(count) + 1, // append position, never renumbered
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lecture).Error; err != nil {
			return err
		}
		return tx.Model(course).Updates(map[string]interface{}{
			"total_lectures": gorm.Expr("total_lectures + 1"),
			"total_duration": gorm.Expr("total_duration + ?", result.Duration),
		}).Error
	})
	if err != nil {
		log.Printf("Error saving lecture to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture added to course successfully.", lecture)
}

func (ctrl *Controller) GetCourseLectures(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	if err := ctrl.DB.First(&models.Course{}, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectures []models.Lecture
	if err := ctrl.DB.Where("course_id = ?", courseID).Order("lecture_order asc").Find(&lectures).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course lectures fetched successfully.", lectures)
}

func (ctrl *Controller) EditLecture(c *fiber.Ctx) error {
	course, ok := ctrl.ownedCourse(c)
	if !ok {
		return nil
	}

	lectureID, err := c.ParamsInt("lectureId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture id!", nil)
	}

	var lecture models.Lecture
	if err := ctrl.DB.Where("course_id = ?", course.ID).First(&lecture, lectureID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	reqData, ok := c.Locals("validatedLectureEdit").(*courseValidator.EditLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lecture.Title = reqData.Title
	}
	if reqData.Description != "" {
		lecture.Description = reqData.Description
	}
	if reqData.IsPreview != nil {
		lecture.IsPreview = *reqData.IsPreview
	}

	// Optional video replacement
	if file, err := c.FormFile("video"); err == nil {
		filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
		if err != nil {
			log.Printf("Error saving video upload: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process video!", nil)
		}
		defer utils.RemoveLocalFile(filePath)

		result, err := ctrl.Media.Upload(filePath)
		if err != nil {
			log.Printf("Error uploading video: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
		}
		if lecture.PublicID != "" {
			if err := ctrl.Media.Destroy(lecture.PublicID, utils.AssetVideo); err != nil {
				log.Printf("Error deleting old video %s: %v", lecture.PublicID, err)
			}
		}
		lecture.VideoURL = result.SecureURL
		lecture.PublicID = result.PublicID
		lecture.Duration = result.Duration
	}

	if err := ctrl.DB.Save(&lecture).Error; err != nil {
		log.Printf("Error updating lecture %d: %v", lecture.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully.", lecture)
}

func (ctrl *Controller) RemoveLecture(c *fiber.Ctx) error {
	course, ok := ctrl.ownedCourse(c)
	if !ok {
		return nil
	}

	lectureID, err := c.ParamsInt("lectureId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture id!", nil)
	}

	var lecture models.Lecture
	if err := ctrl.DB.Where("course_id = ?", course.ID).First(&lecture, lectureID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	// Asset first, then the row. Remaining lecture orders and the course
	// counters are intentionally left untouched.
	if lecture.PublicID != "" {
		if err := ctrl.Media.Destroy(lecture.PublicID, utils.AssetVideo); err != nil {
			log.Printf("Error deleting lecture video %s: %v", lecture.PublicID, err)
		}
	}

	if err := ctrl.DB.Delete(&lecture).Error; err != nil {
		log.Printf("Error deleting lecture %d: %v", lecture.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture removed from course successfully.", nil)
}
