package progressController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms/config"
	progressController "lms/controllers/progress"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/routers/progressRoutes"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4, Env: "test"}

	db, err := database.NewForTesting()
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	progressRoutes.SetupProgressRoutes(app, progressController.New(db.Db))
	return app, db.Db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Password: "irrelevant",
		Role:     models.RoleStudent,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourseWithLectures(t *testing.T, db *gorm.DB, lectures int) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:        "Go From Scratch",
		Subtitle:     "Zero to production",
		Description:  "A complete course",
		Category:     "programming",
		Level:        models.LevelBeginner,
		Price:        499,
		InstructorID: 1,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(course).Error)
	for i := 1; i <= lectures; i++ {
		require.NoError(t, db.Create(&models.Lecture{
			CourseID: course.ID,
			Title:    fmt.Sprintf("Lecture %d", i),
			VideoURL: "https://cdn.example.com/video",
			PublicID: fmt.Sprintf("video_%d", i),
			Duration: 60,
			Order:    i,
		}).Error)
	}
	return course
}

func authCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func doRequest(t *testing.T, app *fiber.App, method, target string, user *models.User) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

type progressEnvelope struct {
	Success bool                  `json:"success"`
	Data    models.CourseProgress `json:"data"`
}

func decodeProgress(t *testing.T, resp *http.Response) models.CourseProgress {
	t.Helper()
	var envelope progressEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestGetCourseProgressCreatesOnFirstFetch(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 3)

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	progress := decodeProgress(t, resp)
	require.Len(t, progress.Lectures, 3, "row is seeded from the course's lectures")
	for _, entry := range progress.Lectures {
		assert.False(t, entry.IsCompleted)
	}

	var rows int64
	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	// A second fetch reuses the same row.
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestGetCourseProgressUnknownCourse(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/progress/9999", user)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateLectureProgressMarksCompleted(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 2)

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lecture models.Lecture
	require.NoError(t, db.Where("course_id = ? AND lecture_order = ?", course.ID, 1).First(&lecture).Error)

	resp = doRequest(t, app, http.MethodPatch,
		fmt.Sprintf("/api/v1/progress/%d/lectures/%d", course.ID, lecture.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entry models.LectureProgress
	require.NoError(t, db.Where("lecture_id = ?", lecture.ID).First(&entry).Error)
	assert.True(t, entry.IsCompleted)
	require.NotNil(t, entry.LastWatched)
}

func TestUpdateLectureProgressAppendsUntracked(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 1)

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A lecture added after the progress row was seeded.
	late := &models.Lecture{
		CourseID: course.ID,
		Title:    "Added later",
		VideoURL: "https://cdn.example.com/video",
		PublicID: "video_late",
		Duration: 60,
		Order:    2,
	}
	require.NoError(t, db.Create(late).Error)

	resp = doRequest(t, app, http.MethodPatch,
		fmt.Sprintf("/api/v1/progress/%d/lectures/%d", course.ID, late.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entry models.LectureProgress
	require.NoError(t, db.Where("lecture_id = ?", late.ID).First(&entry).Error)
	assert.True(t, entry.IsCompleted)
}

func TestUpdateLectureProgressWithoutRow(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 1)

	resp := doRequest(t, app, http.MethodPatch,
		fmt.Sprintf("/api/v1/progress/%d/lectures/1", course.ID), user)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkCourseCompleteAndReset(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 3)

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/progress/%d/complete", course.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	progress := decodeProgress(t, resp)
	require.Len(t, progress.Lectures, 3)
	for _, entry := range progress.Lectures {
		assert.True(t, entry.IsCompleted)
	}

	resp = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/progress/%d/reset", course.ID), user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	progress = decodeProgress(t, resp)
	for _, entry := range progress.Lectures {
		assert.False(t, entry.IsCompleted)
		assert.Zero(t, entry.WatchTime)
	}
}

func TestResetProgressIsIdempotent(t *testing.T) {
	app, db := setupTest(t)
	user := seedUser(t, db)
	course := seedCourseWithLectures(t, db, 2)

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for i := 0; i < 2; i++ {
		resp = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/progress/%d/reset", course.ID), user)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	progress := decodeProgress(t, resp)
	for _, entry := range progress.Lectures {
		assert.False(t, entry.IsCompleted)
	}
}

func TestProgressRequiresSession(t *testing.T) {
	app, _ := setupTest(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/progress/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
