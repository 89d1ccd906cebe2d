package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/services"
)

const contextKeyUser = "currentUser"

// RequireAuth verifies the bearer credential and stores the resolved user
// in the request context. Handlers receive an explicit caller identity;
// nothing outside this middleware touches the credential.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			dto.Fail(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		user, err := authService.VerifyCredential(parts[1])
		if err != nil {
			dto.Fail(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(contextKeyUser, *user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the request context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(contextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// SetCurrentUser stores an authenticated user on the context (used for
// testing handlers without the full middleware chain).
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(contextKeyUser, user)
}
