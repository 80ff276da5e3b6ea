package userController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/config"
	userController "lms/controllers/user"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/routers/userRoutes"
	"lms/utils"
)

type stubMedia struct{}

func (stubMedia) Upload(string) (*utils.UploadResult, error) {
	return &utils.UploadResult{PublicID: "avatar_1", SecureURL: "https://cdn.example.com/avatar_1"}, nil
}

func (stubMedia) Destroy(string, utils.AssetKind) error { return nil }

type stubMailer struct {
	sent []string
}

func (m *stubMailer) SendPasswordReset(name, email, resetURL string) error {
	m.sent = append(m.sent, email)
	return nil
}

func setupTest(t *testing.T) (*fiber.App, *gorm.DB, *stubMailer) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
		Env:       "test",
		ClientURL: "http://localhost:3000",
	}

	db, err := database.NewForTesting()
	require.NoError(t, err)

	mailer := &stubMailer{}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	userRoutes.SetupUserRoutes(app, userController.New(db.Db, stubMedia{}, mailer))
	return app, db.Db, mailer
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	require.NoError(t, err)
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleStudent,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	app, db, _ := setupTest(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signup", fiber.Map{
		"name":     "New Student",
		"email":    "student@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie, "signup sets the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	var user models.User
	require.NoError(t, db.Where("email = ?", "student@example.com").First(&user).Error)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "supersecret", user.Password, "password is stored hashed")

	// The envelope never echoes the hash.
	var envelope struct {
		Data struct {
			User map[string]interface{} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	_, leaked := envelope.Data.User["password"]
	assert.False(t, leaked)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, db, _ := setupTest(t)
	seedUser(t, db, "taken@example.com", "supersecret")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signup", fiber.Map{
		"name":     "Second",
		"email":    "taken@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "taken@example.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSignupValidation(t *testing.T) {
	app, db, _ := setupTest(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signup", fiber.Map{
		"name":     "No",
		"email":    "not-an-email",
		"password": "short",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestSignin(t *testing.T) {
	app, db, _ := setupTest(t)
	seedUser(t, db, "student@example.com", "supersecret")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signin", fiber.Map{
		"email":    "student@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, tokenCookie(resp))
}

func TestSigninWrongPassword(t *testing.T) {
	app, db, _ := setupTest(t)
	seedUser(t, db, "student@example.com", "supersecret")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signin", fiber.Map{
		"email":    "student@example.com",
		"password": "wrong-password",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, tokenCookie(resp), "failed signin must not set a session cookie")
}

func TestSigninUnknownEmail(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/signin", fiber.Map{
		"email":    "nobody@example.com",
		"password": "supersecret",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignoutClearsCookie(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/users/signout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestGetProfileRequiresSession(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	app, db, _ := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "student@example.com", envelope.Data["email"])
	_, leaked := envelope.Data["password"]
	assert.False(t, leaked)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	app, db, _ := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")
	seedUser(t, db, "taken@example.com", "supersecret")

	req := jsonRequest(http.MethodPatch, "/api/v1/users/profile", fiber.Map{
		"email": "taken@example.com",
	})
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "student@example.com", reloaded.Email)
}

func TestChangePassword(t *testing.T) {
	app, db, _ := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")

	req := jsonRequest(http.MethodPatch, "/api/v1/users/change-password", fiber.Map{
		"currentPassword": "supersecret",
		"newPassword":     "evenmoresecret",
	})
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("evenmoresecret")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	app, db, _ := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")

	req := jsonRequest(http.MethodPatch, "/api/v1/users/change-password", fiber.Map{
		"currentPassword": "wrong-password",
		"newPassword":     "evenmoresecret",
	})
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	app, db, mailer := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users/forgot-password", fiber.Map{
		"email": "student@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"student@example.com"}, mailer.sent)

	var envelope struct {
		Data struct {
			ResetToken string `json:"resetToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data.ResetToken)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NotEqual(t, envelope.Data.ResetToken, reloaded.ResetPasswordToken, "only the hash is stored")

	resp, err = app.Test(jsonRequest(http.MethodPost,
		"/api/v1/users/reset-password/"+envelope.Data.ResetToken, fiber.Map{
			"password": "freshpassword",
		}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("freshpassword")))
	assert.Empty(t, reloaded.ResetPasswordToken)

	// The token is single use.
	resp, err = app.Test(jsonRequest(http.MethodPost,
		"/api/v1/users/reset-password/"+envelope.Data.ResetToken, fiber.Map{
			"password": "anotherpassword",
		}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordBadToken(t *testing.T) {
	app, db, _ := setupTest(t)
	seedUser(t, db, "student@example.com", "supersecret")

	resp, err := app.Test(jsonRequest(http.MethodPost,
		"/api/v1/users/reset-password/deadbeef", fiber.Map{
			"password": "freshpassword",
		}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAccount(t *testing.T) {
	app, db, _ := setupTest(t)
	user := seedUser(t, db, "student@example.com", "supersecret")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete-account", nil)
	req.AddCookie(authCookie(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}
