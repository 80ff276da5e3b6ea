package progressController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
)

type Controller struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Controller {
	return &Controller{DB: db}
}

// GetCourseProgress returns the user's progress row for a course, creating it
// on first fetch seeded from the course's current lectures.
func (ctrl *Controller) GetCourseProgress(c *fiber.Ctx) error {
	userID, courseID, ok := requestPair(c)
	if !ok {
		return nil
	}

	var progress models.CourseProgress
	err := ctrl.DB.Preload("Lectures").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched.", progress)
	}
	if err != gorm.ErrRecordNotFound {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var course models.Course
	if err := ctrl.DB.Preload("Lectures").First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	progress = models.CourseProgress{UserID: userID, CourseID: uint(courseID)}
	for _, lecture := range course.Lectures {
		progress.Lectures = append(progress.Lectures, models.LectureProgress{
			LectureID: lecture.ID,
		})
	}
	if err := ctrl.DB.Create(&progress).Error; err != nil {
		log.Printf("Error creating progress for user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched.", progress)
}

// UpdateLectureProgress marks a single lecture completed. Lectures not yet
// tracked (added to the course after the row was seeded) are appended.
func (ctrl *Controller) UpdateLectureProgress(c *fiber.Ctx) error {
	userID, courseID, ok := requestPair(c)
	if !ok {
		return nil
	}
	lectureID, err := c.ParamsInt("lectureId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture id!", nil)
	}

	var progress models.CourseProgress
	err = ctrl.DB.Preload("Lectures").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}

	now := time.Now()
	var tracked *models.LectureProgress
	for i := range progress.Lectures {
		if progress.Lectures[i].LectureID == uint(lectureID) {
			tracked = &progress.Lectures[i]
			break
		}
	}

	if tracked == nil {
		entry := models.LectureProgress{
			CourseProgressID: progress.ID,
			LectureID:        uint(lectureID),
			IsCompleted:      true,
			LastWatched:      &now,
		}
		if err := ctrl.DB.Create(&entry).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
		progress.Lectures = append(progress.Lectures, entry)
	} else {
		tracked.IsCompleted = true
		tracked.LastWatched = &now
		if err := ctrl.DB.Save(tracked).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture progress updated.", progress)
}

// MarkCourseComplete sets every tracked lecture's flag.
func (ctrl *Controller) MarkCourseComplete(c *fiber.Ctx) error {
	progress, ok := ctrl.loadProgress(c)
	if !ok {
		return nil
	}

	err := ctrl.DB.Model(&models.LectureProgress{}).
		Where("course_progress_id = ?", progress.ID).
		Update("is_completed", true).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return ctrl.respondReloaded(c, progress.ID, "Course marked as completed.")
}

// ResetProgress clears every flag and watch-time counter. Resetting an
// already-reset row is a no-op.
func (ctrl *Controller) ResetProgress(c *fiber.Ctx) error {
	progress, ok := ctrl.loadProgress(c)
	if !ok {
		return nil
	}

	err := ctrl.DB.Model(&models.LectureProgress{}).
		Where("course_progress_id = ?", progress.ID).
		Updates(map[string]interface{}{
			"is_completed": false,
			"watch_time":   0,
		}).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset progress!", nil)
	}

	return ctrl.respondReloaded(c, progress.ID, "Course progress reset.")
}

func (ctrl *Controller) loadProgress(c *fiber.Ctx) (*models.CourseProgress, bool) {
	userID, courseID, ok := requestPair(c)
	if !ok {
		return nil, false
	}

	var progress models.CourseProgress
	err := ctrl.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
		return nil, false
	}
	return &progress, true
}

func (ctrl *Controller) respondReloaded(c *fiber.Ctx, progressID uint, message string) error {
	var progress models.CourseProgress
	if err := ctrl.DB.Preload("Lectures").First(&progress, progressID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, progress)
}

func requestPair(c *fiber.Ctx) (uint, int, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
		return 0, 0, false
	}
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		return 0, 0, false
	}
	return userID, courseID, true
}
