package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ishaan583/foodshare/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testTokens = auth.NewTokenManager("test-secret-key-for-testing-only", time.Hour)

func newProtectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(testTokens, zap.NewNop()))
	router.Use(extra...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString(auth.ContextUserID),
			"userEmail": c.GetString(auth.ContextUserEmail),
			"userRole":  c.GetString(auth.ContextUserRole),
		})
	})
	return router
}

func get(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingAuthHeader(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, get(newProtectedRouter(), "").Code)
}

func TestAuth_InvalidAuthFormat(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, get(newProtectedRouter(), "InvalidFormat").Code)
	assert.Equal(t, http.StatusUnauthorized, get(newProtectedRouter(), "Token abc").Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, get(newProtectedRouter(), "Bearer invalid_token_xyz").Code)
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := testTokens.Generate("test-user-id", "test@example.com", auth.RoleNGO)
	require.NoError(t, err)

	w := get(newProtectedRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":"test-user-id","userEmail":"test@example.com","userRole":"NGO"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	router := newProtectedRouter(RequireRole(auth.RoleDonor, auth.RoleAdmin))

	donor, err := testTokens.Generate("d1", "d@example.com", auth.RoleDonor)
	require.NoError(t, err)
	ngo, err := testTokens.Generate("n1", "n@example.com", auth.RoleNGO)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(router, "Bearer "+donor).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "Bearer "+ngo).Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, get(router, "").Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	get(router, "")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/test", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
