package middleware

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	r.GET("/teacher", AuthMiddleware(testSecret), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		util.Success(c, "ok")
	})
	return r
}

func token(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: id}, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, path, header string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	tok := token(t, 7, model.Student)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer not-a-token"))
	assert.Equal(t, http.StatusOK, do(r, "/me", "Bearer "+tok))
	assert.Equal(t, http.StatusOK, do(r, "/me?token="+tok, ""))
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, do(r, "/teacher", "Bearer "+token(t, 1, model.Student)))
	assert.Equal(t, http.StatusOK, do(r, "/teacher", "Bearer "+token(t, 2, model.Teacher)))
	assert.Equal(t, http.StatusOK, do(r, "/teacher", "Bearer "+token(t, 3, model.Admin)))
}
