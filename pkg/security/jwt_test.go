package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettracker/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(a *Authenticator, required roles.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/assets/:id", a.JWTMiddleware(), Authorize(required), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": SubjectFromContext(c)})
	})
	return router
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)
	adminToken, err := a.GenerateToken("alice", roles.Admin)
	require.NoError(t, err)
	userToken, err := a.GenerateToken("bob", roles.User)
	require.NoError(t, err)
	foreignToken, err := NewAuthenticator("other-secret", time.Hour).GenerateToken("eve", roles.Admin)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"token signed with another secret", "Bearer " + foreignToken, http.StatusUnauthorized},
		{"insufficient role", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	router := setupRouter(a, roles.Admin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/assets/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSubjectIsExposed(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)
	token, err := a.GenerateToken("alice", roles.Admin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/assets/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	setupRouter(a, roles.User).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":"alice"}`, w.Body.String())
}

func TestGenerateTokenRejectsUnknownRole(t *testing.T) {
	_, err := NewAuthenticator("s", time.Hour).GenerateToken("alice", roles.Role("root"))
	assert.Error(t, err)
}
