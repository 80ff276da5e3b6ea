package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/models"
)

// RequireRoles returns a middleware that loads the acting user and checks its
// role against the allow-list. Unknown role values fail closed.
func RequireRoles(db *gorm.DB, allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized Access!", nil)
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking role!", nil)
		}

		role, ok := models.ParseRole(user.Role.String())
		if !ok {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		for _, a := range allowed {
			if role == a {
				c.Locals("user", &user)
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
