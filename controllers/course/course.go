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

// MediaStore is the media delegate for thumbnails and lecture videos.
type MediaStore interface {
	Upload(filePath string) (*utils.UploadResult, error)
	Destroy(publicID string, kind utils.AssetKind) error
}

type Controller struct {
	DB    *gorm.DB
	Media MediaStore
}

func New(db *gorm.DB, media MediaStore) *Controller {
	return &Controller{DB: db, Media: media}
}

func (ctrl *Controller) CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	file, err := c.FormFile("courseThumbnail")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course thumbnail is required!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
	if err != nil {
		log.Printf("Error saving thumbnail upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process thumbnail!", nil)
	}
	defer utils.RemoveLocalFile(filePath)

	result, err := ctrl.Media.Upload(filePath)
	if err != nil {
		log.Printf("Error uploading thumbnail: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
	}

	course := models.Course{
		Title:        reqData.Title,
		Subtitle:     reqData.Subtitle,
		Description:  reqData.Description,
		Category:     reqData.Category,
		Level:        reqData.Level,
		Price:        reqData.Price,
		ThumbnailID:  result.PublicID,
		ThumbnailURL: result.SecureURL,
		InstructorID: userID,
	}

	if err := ctrl.DB.Create(&course).Error; err != nil {
		log.Printf("Error saving course to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func (ctrl *Controller) SearchCourses(c *fiber.Ctx) error {
	keyword := "%" + c.Query("keyword") + "%"

	var courses []models.Course
	err := ctrl.DB.
		Where("is_published = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			keyword, keyword, keyword).
		Preload("Instructor").
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

func (ctrl *Controller) GetPublishedCourses(c *fiber.Ctx) error {
	var courses []models.Course
	err := ctrl.DB.
		Where("is_published = ?", true).
		Preload("Instructor").
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

func (ctrl *Controller) GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	var courses []models.Course
	if err := ctrl.DB.Where("instructor_id = ?", userID).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

func (ctrl *Controller) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	err = ctrl.DB.
		Preload("Instructor").
		Preload("Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("lecture_order asc") }).
		First(&course, courseID).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}

func (ctrl *Controller) UpdateCourse(c *fiber.Ctx) error {
	course, ok := ctrl.ownedCourse(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Subtitle != "" {
		course.Subtitle = reqData.Subtitle
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	// Optional thumbnail replacement
	if file, err := c.FormFile("courseThumbnail"); err == nil {
		filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
		if err != nil {
			log.Printf("Error saving thumbnail upload: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process thumbnail!", nil)
		}
		defer utils.RemoveLocalFile(filePath)

		result, err := ctrl.Media.Upload(filePath)
		if err != nil {
			log.Printf("Error uploading thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
		}
		if course.ThumbnailID != "" {
			if err := ctrl.Media.Destroy(course.ThumbnailID, utils.AssetImage); err != nil {
				log.Printf("Error deleting old thumbnail %s: %v", course.ThumbnailID, err)
			}
		}
		course.ThumbnailID = result.PublicID
		course.ThumbnailURL = result.SecureURL
	}

	if err := ctrl.DB.Save(course).Error; err != nil {
		log.Printf("Error updating course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

func (ctrl *Controller) RemoveCourse(c *fiber.Ctx) error {
	course, ok := ctrl.ownedCourse(c)
	if !ok {
		return nil
	}

	// Media assets go first. Failures are logged, not retried.
	if course.ThumbnailID != "" {
		if err := ctrl.Media.Destroy(course.ThumbnailID, utils.AssetImage); err != nil {
			log.Printf("Error deleting thumbnail %s: %v", course.ThumbnailID, err)
		}
	}

	var lectures []models.Lecture
	if err := ctrl.DB.Where("course_id = ?", course.ID).Find(&lectures).Error; err == nil {
		for _, lecture := range lectures {
			if lecture.PublicID == "" {
				continue
			}
			if err := ctrl.Media.Destroy(lecture.PublicID, utils.AssetVideo); err != nil {
				log.Printf("Error deleting lecture video %s: %v", lecture.PublicID, err)
			}
		}
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lecture{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		log.Printf("Error deleting course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course removed successfully.", nil)
}

// ownedCourse loads the course from the path and enforces that the acting
// user is its instructor. On failure the response has already been written.
func (ctrl *Controller) ownedCourse(c *fiber.Ctx) (*models.Course, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
		return nil, false
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		return nil, false
	}

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, false
	}

	if course.InstructorID != userID {
		_ = middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		return nil, false
	}
	return &course, true
}
