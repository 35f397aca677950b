package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "middleware-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "confreg-test",
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{"not found", apperrors.NewResourceNotFoundError("会议不存在"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "会议不存在"},
		{"conflict", apperrors.NewConflictError("您已经报名过本次会议"), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "您已经报名过本次会议"},
		{"invalid state", apperrors.NewInvalidStateError("报名已结束"), http.StatusBadRequest, dto.ErrorCodeInvalidState, "报名已结束"},
		{"validation", apperrors.NewValidationError("score", "分数必须在0到100之间"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "分数必须在0到100之间"},
		{"media type", apperrors.NewUnsupportedMediaTypeError("x"), http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMediaType, "x"},
		{"too large", apperrors.NewPayloadTooLargeError(10 << 20), http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "文件大小不能超过10MB"},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "没有权限执行此操作"},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "请先登录"},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "登录已过期，请重新登录"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestHandleAPIError_CarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, apperrors.NewValidationError("endDate", "无效的日期时间格式: \"x\""))
	assert.Equal(t, "endDate", decodeError(t, w).Error.Field)
}

func TestHandleAPIError_CarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", nil)

	HandleAPIError(c, apperrors.NewPayloadTooLargeError(20<<20))
	assert.JSONEq(t, `{"maxSize":20971520}`, mustJSON(t, decodeError(t, w).Error.Details))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func newGatedRouter(m *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		fromCtx, ok := auth.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "ctx": ok && fromCtx == p})
	})
	r.GET("/admin", m.RequireAuth(), m.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/public", m.OptionalAuth(), func(c *gin.Context) {
		_, ok := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"signedIn": ok})
	})
	return r
}

func TestAuthMiddleware_RoleGate(t *testing.T) {
	jwtSvc := newJWT()
	m := NewAuthMiddleware(jwtSvc, "session_token")
	r := newGatedRouter(m)

	studentToken, _, err := jwtSvc.GenerateAccessToken(&models.User{ID: 5, Email: "s@example.com", RoleType: models.RoleStudent})
	require.NoError(t, err)
	adminToken, _, err := jwtSvc.GenerateAccessToken(&models.User{ID: 1, Email: "a@example.com", RoleType: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		setup  func(*http.Request)
		status int
	}{
		{"no session on admin route", "/admin", func(*http.Request) {}, http.StatusUnauthorized},
		{"student on admin route", "/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+studentToken) }, http.StatusForbidden},
		{"admin via cookie", "/admin", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session_token", Value: adminToken})
		}, http.StatusNoContent},
		{"garbage token", "/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc.def.ghi") }, http.StatusUnauthorized},
		{"student session", "/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+studentToken) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"userId":5,"ctx":true}`, w.Body.String())
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	jwtSvc := newJWT()
	r := newGatedRouter(NewAuthMiddleware(jwtSvc, "session_token"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"signedIn":false}`, w.Body.String())

	token, _, err := jwtSvc.GenerateAccessToken(&models.User{ID: 9, RoleType: models.RoleStudent})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"signedIn":true}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, dto.ErrorCodeInternalServer, decodeError(t, w).Error.Code)
}

func TestBindJSON_FirstFieldMessage(t *testing.T) {
	type payload struct {
		Score *int `json:"score" binding:"required,min=0,max=100" label:"分数"`
	}

	r := gin.New()
	r.POST("/score", func(c *gin.Context) {
		var p payload
		if !BindJSON(c, &p) {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"score":101}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
}
