package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/pkg/jwt"
)

// UserContextKey is the key used to store the actor in the Gin context
const UserContextKey = "user"

// UserContext represents the authenticated staff member acting on the
// engine. Every mutating operation downstream only ever sees this id,
// never credentials.
type UserContext struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			message := "Invalid access token"
			if jwtService.IsTokenExpired(tokenString) {
				message = "Access token has expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})

		c.Next()
	}
}

// RequireRole creates a middleware that checks if the actor has one of
// the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User context not found",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if userCtx.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You don't have permission to access this resource",
		})
		c.Abort()
	}
}

// GetUserContext retrieves the authenticated actor from the Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}
	userCtx, ok := value.(UserContext)
	return userCtx, ok
}
