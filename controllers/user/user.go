package userController

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	userValidator "lms/validators/user"
)

// MediaStore is the media delegate used for avatar assets.
type MediaStore interface {
	Upload(filePath string) (*utils.UploadResult, error)
	Destroy(publicID string, kind utils.AssetKind) error
}

// Mailer delivers the password-reset mail.
type Mailer interface {
	SendPasswordReset(name, email, resetURL string) error
}

type Controller struct {
	DB    *gorm.DB
	Media MediaStore
	Mail  Mailer
}

func New(db *gorm.DB, media MediaStore, mail Mailer) *Controller {
	return &Controller{DB: db, Media: media, Mail: mail}
}

func (ctrl *Controller) Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*userValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if email already exists
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already exists!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:       reqData.Name,
		Email:      reqData.Email,
		Password:   string(hashedPassword),
		Role:       models.RoleStudent,
		LastActive: time.Now(),
	}

	if err := ctrl.DB.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}
	middleware.SetTokenCookie(c, token)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created successfully.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func (ctrl *Controller) Signin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignin").(*userValidator.SigninRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastActive = time.Now()
	if err := ctrl.DB.Model(&user).Update("last_active", user.LastActive).Error; err != nil {
		log.Printf("Error updating last active for user %d: %v", user.ID, err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign in!", nil)
	}
	middleware.SetTokenCookie(c, token)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (ctrl *Controller) Signout(c *fiber.Ctx) error {
	middleware.ClearTokenCookie(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func (ctrl *Controller) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	var user models.User
	if err := ctrl.DB.Preload("Enrollments.Course").First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

func (ctrl *Controller) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	var user models.User
	if err := ctrl.DB.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Email != "" && reqData.Email != user.Email {
		if err := ctrl.DB.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already taken!", nil)
		}
		user.Email = reqData.Email
	}
	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}

	// Optional avatar replacement through the media delegate
	if file, err := c.FormFile("avatar"); err == nil {
		filePath, err := utils.SaveUploadedFile(file, utils.UploadTempDir())
		if err != nil {
			log.Printf("Error saving avatar upload: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process avatar!", nil)
		}
		defer utils.RemoveLocalFile(filePath)

		result, err := ctrl.Media.Upload(filePath)
		if err != nil {
			log.Printf("Error uploading avatar: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Server Error", nil)
		}
		if user.AvatarID != "" {
			if err := ctrl.Media.Destroy(user.AvatarID, utils.AssetImage); err != nil {
				log.Printf("Error deleting old avatar %s: %v", user.AvatarID, err)
			}
		}
		user.AvatarID = result.PublicID
		user.Avatar = result.SecureURL
	}

	if err := ctrl.DB.Save(&user).Error; err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func (ctrl *Controller) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	reqData, ok := c.Locals("validatedPassword").(*userValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := ctrl.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func (ctrl *Controller) ForgotPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgot").(*userValidator.ForgotPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Random token goes to the user, its SHA-256 is what we store.
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		log.Printf("Error generating reset token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	resetToken := hex.EncodeToString(raw)
	hashed := sha256.Sum256([]byte(resetToken))
	expire := time.Now().Add(10 * time.Minute)

	user.ResetPasswordToken = hex.EncodeToString(hashed[:])
	user.ResetPasswordExpire = &expire
	if err := ctrl.DB.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	resetURL := config.AppConfig.ClientURL + "/reset-password/" + resetToken
	if err := ctrl.Mail.SendPasswordReset(user.Name, user.Email, resetURL); err != nil {
		log.Printf("Error sending reset email to %s: %v", user.Email, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reset token generated successfully.", fiber.Map{
		"resetToken": resetToken,
		"resetUrl":   resetURL,
	})
}

func (ctrl *Controller) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	reqData, ok := c.Locals("validatedReset").(*userValidator.ResetPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	hashed := sha256.Sum256([]byte(token))
	var user models.User
	err := ctrl.DB.Where("reset_password_token = ? AND reset_password_expire > ?",
		hex.EncodeToString(hashed[:]), time.Now()).First(&user).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Password reset token is invalid or has expired!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	updates := map[string]interface{}{
		"password":              string(hashedPassword),
		"reset_password_token":  "",
		"reset_password_expire": nil,
	}
	if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}

func (ctrl *Controller) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
	}

	var user models.User
	if err := ctrl.DB.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := ctrl.DB.Delete(&user).Error; err != nil {
		log.Printf("Error deleting user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	middleware.ClearTokenCookie(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}
