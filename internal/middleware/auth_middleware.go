package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// principalContextKey is the gin context key holding the auth.Principal
const principalContextKey = "principal"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware. Tokens are read from the
// cookieName cookie first, then from the Authorization header.
func NewAuthMiddleware(jwtService *auth.JWTService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cookieName: cookieName,
	}
}

func (m *AuthMiddleware) tokenFromRequest(c *gin.Context) string {
	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil && strings.TrimSpace(cookie) != "" {
			return strings.TrimSpace(cookie)
		}
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

// authenticate validates the presented token and stores its principal
func (m *AuthMiddleware) authenticate(c *gin.Context) (auth.Principal, error) {
	token := m.tokenFromRequest(c)
	if token == "" {
		return auth.Principal{}, apperrors.ErrUnauthenticated
	}

	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return auth.Principal{}, err
	}

	p := claims.Principal()
	c.Set(principalContextKey, p)
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
	return p, nil
}

// RequireAuth rejects requests without a valid session with 401
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.authenticate(c); err != nil {
			if !errors.Is(err, apperrors.ErrUnauthenticated) {
				logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected session token")
			}
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid session is present and
// lets anonymous requests through unchanged.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _ = m.authenticate(c)
		c.Next()
	}
}

// RequireRole answers 403 unless the principal holds role. It must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			HandleAPIError(c, apperrors.ErrUnauthenticated)
			return
		}
		if p.Role != role {
			logger.Warn().
				Int64("userID", p.UserID).
				Str("role", string(p.Role)).
				Str("path", c.Request.URL.Path).
				Msg("Access denied for role")
			HandleAPIError(c, apperrors.NewForbiddenError("没有权限执行此操作"))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller stored by the auth middleware
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalContextKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
