package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authMiddlewareEnv struct {
	router *gin.Engine
	tokens *token.Manager
	user   models.User
}

func setupAuthMiddleware(t *testing.T) authMiddlewareEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	user := models.User{Username: "member", Email: "member@example.com", Name: "Member"}
	require.NoError(t, db.Create(&user).Error)

	tokens := token.NewManager("test-secret", time.Hour)
	authService := services.NewAuthService(repository.NewUserRepository(db), tokens)

	r := gin.New()
	r.GET("/protected", RequireAuth(authService), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": current.Username})
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authMiddlewareEnv{router: r, tokens: tokens, user: user}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	env := setupAuthMiddleware(t)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc123"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)

		var response struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.False(t, response.Success)
		require.Equal(t, "Access token required", response.Message)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	env := setupAuthMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Invalid token", response.Message)
}

// A syntactically valid credential whose user no longer exists is rejected
// the same way as a forged one.
func TestRequireAuth_DeletedUser(t *testing.T) {
	env := setupAuthMiddleware(t)

	tok, err := env.tokens.Issue(env.user.ID + 1000)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	env := setupAuthMiddleware(t)

	tok, err := env.tokens.Issue(env.user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "member", response.Username)
}
