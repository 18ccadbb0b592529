package middleware

import (
	"net/http"

	"serenicash/database"
	"serenicash/models"

	"github.com/gin-gonic/gin"
)

// AdminRequired allows only admin users past. Must run after JWTAuth.
// The loaded user row is cached on the context for the handler.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Access token required",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "User not found",
			})
			c.Abort()
			return
		}

		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}

// GetContextUser returns the user row cached by AdminRequired, or nil.
func GetContextUser(c *gin.Context) *models.User {
	if v, ok := c.Get("currentUser"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
