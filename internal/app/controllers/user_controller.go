package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
	"github.com/tjmun/confreg/internal/pkg/helpers"
)

// UserController handles the administrator views of accounts and totals
type UserController struct {
	userService      services.UserService
	dashboardService services.DashboardService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, dashboardService services.DashboardService) *UserController {
	return &UserController{
		userService:      userService,
		dashboardService: dashboardService,
	}
}

// ListUsers pages through all accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.userService.List(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      dto.FromUsers(users),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// Dashboard returns the admin overview counters
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DashboardStats} "Statistics"
// @Router /admin/dashboard [get]
func (c *UserController) Dashboard(ctx *gin.Context) {
	stats, err := c.dashboardService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
