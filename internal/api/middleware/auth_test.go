package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-core/internal/model"
)

const testSecret = "test-secret"

func newAuthRouter(staffOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", Auth(testSecret))
	if staffOnly {
		grp.Use(RequireStaff())
	}
	grp.GET("/whoami", func(c *gin.Context) {
		id, role := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "u1", model.RoleUser, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthRouter(false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
}

func TestAuth_Rejections(t *testing.T) {
	r := newAuthRouter(false)

	// 无 token
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 错误密钥签发
	bad, err := GenerateToken("other-secret", "u1", model.RoleUser, time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 过期 token
	expired, err := GenerateToken(testSecret, "u1", model.RoleUser, -time.Minute)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	r := newAuthRouter(true)

	userToken, err := GenerateToken(testSecret, "u1", model.RoleUser, time.Hour)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	modToken, err := GenerateToken(testSecret, "m1", model.RoleModerator, time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+modToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/peek", OptionalAuth(testSecret), func(c *gin.Context) {
		id, _ := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	// 无 token 也放行，actor 为空
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/peek", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)

	token, err := GenerateToken(testSecret, "u9", model.RoleUser, time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/peek", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"id":"u9"`)
}
