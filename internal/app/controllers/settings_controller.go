package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
)

// SettingsController exposes the site configuration
type SettingsController struct {
	settingsService services.SettingsService
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// UpdateSettings upserts the provided keys
// @Summary Update site settings
// @Description Keys absent from the body are left unchanged; empty strings clear a value
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} dto.APIResponse{data=[]models.SiteConfig} "Current settings"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /admin/settings [put]
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	settings, err := c.settingsService.Update(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings, "设置已保存"))
}

// GetSettings returns every stored setting
// @Summary List site settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SiteConfig} "Settings"
// @Router /admin/settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings, ""))
}

// GetContact returns the public contact information
// @Summary Contact information
// @Tags settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=map[string]string} "Contact keys"
// @Router /settings/contact [get]
func (c *SettingsController) GetContact(ctx *gin.Context) {
	contact, err := c.settingsService.Contact(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(contact, ""))
}

// GetCountdown returns the public countdown target, null when unset
// @Summary Countdown target
// @Tags settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CountdownResponse} "Countdown"
// @Router /settings/countdown [get]
func (c *SettingsController) GetCountdown(ctx *gin.Context) {
	target, err := c.settingsService.Countdown(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountdownResponse{Target: target}, ""))
}
