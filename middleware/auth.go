package middleware

import (
	"net/http"
	"strings"

	"pos-backend/models"
	"pos-backend/repositories"
	"pos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID       = "user_id"
	ContextUserRole     = "user_role"
	ContextUser         = "user"
	ContextTokenID      = "token_id"
	ContextTokenExpires = "token_expires_at"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// AuthMiddleware accepts a bearer access token that is not blocklisted and
// belongs to an active user.
func AuthMiddleware(tokens *utils.TokenManager, blocklist utils.TokenBlocklist, db *gorm.DB) gin.HandlerFunc {
	users := repositories.NewUserRepository(db)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		revoked, err := blocklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Msg("Token blocklist lookup failed")
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "User not found")
			return
		}
		if user.Status != models.UserStatusActive {
			abort(c, http.StatusUnauthorized, "Account is inactive")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, string(user.Role))
		c.Set(ContextUser, user)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpires, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// ManagerMiddleware lets managers and admins through.
func ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role != string(models.RoleManager) && role != string(models.RoleAdmin) {
			abort(c, http.StatusForbidden, "Manager access required")
			return
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != string(models.RoleAdmin) {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
