package middleware

import (
	"net/http"

	profileRepo "handwerk/database/repository/profile"
	"handwerk/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// RequireRole lets the request through only when the authenticated
// user's profile carries the given role. Must run after
// JWTAuthMiddleware.
func RequireRole(profiles profileRepo.ProfileRepository, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		profile, err := profiles.GetByIDWithProjection(userID, bson.M{"id": 1, "role": 1})
		if err != nil || profile == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Profile not found"})
			return
		}
		if models.ParseRole(string(profile.Role)) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}

		c.Set("role", string(profile.Role))
		c.Next()
	}
}
