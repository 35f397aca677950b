// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  *services.AuthService
	cookieName   string
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController. The session token is
// also written to the cookieName cookie on login.
func NewAuthController(authService *services.AuthService, cookieName string, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Register handles user registration
// @Summary Register a new account
// @Description Creates a STUDENT account. School defaults to the configured school when empty.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromUser(user), "注册成功"))
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials, returns a session token and sets it as an HttpOnly cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookieName, resp.AccessToken, int(resp.ExpiresIn), "/", "", c.cookieSecure, true)
	c.logger.Info().Int64("userID", resp.User.ID).Msg("User logged in")

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "登录成功"))
}

// Logout clears the session cookie
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookieName, "", -1, "/", "", c.cookieSecure, true)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "已退出登录"))
}

// Me returns the profile of the signed-in user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Current user"
// @Failure 401 {object} dto.ErrorResponse "Not signed in"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user), ""))
}
