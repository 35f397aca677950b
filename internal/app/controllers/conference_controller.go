package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/validation"
)

// ConferenceController handles conference endpoints
type ConferenceController struct {
	conferenceService services.ConferenceService
}

// NewConferenceController creates a new ConferenceController
func NewConferenceController(conferenceService services.ConferenceService) *ConferenceController {
	return &ConferenceController{
		conferenceService: conferenceService,
	}
}

// CreateConference handles conference creation
// @Summary Create a conference
// @Description Dates accept RFC 3339 or local "YYYY-MM-DDTHH:MM[:SS]" strings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConferenceRequest true "Conference"
// @Success 201 {object} dto.APIResponse{data=models.Conference} "Created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Name or slug already used"
// @Router /admin/conferences [post]
func (c *ConferenceController) CreateConference(ctx *gin.Context) {
	var req dto.ConferenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	conf, err := c.conferenceService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(conf, "会议已创建"))
}

// UpdateConference handles conference updates
// @Summary Update a conference
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conference ID"
// @Param request body dto.ConferenceRequest true "Conference"
// @Success 200 {object} dto.APIResponse{data=models.Conference} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Conference not found"
// @Failure 409 {object} dto.ErrorResponse "Name or slug already used"
// @Router /admin/conferences/{id} [put]
func (c *ConferenceController) UpdateConference(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ConferenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	conf, err := c.conferenceService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conf, "会议已更新"))
}

// AdminGetConference returns a conference by id
// @Summary Get a conference
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conference ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConferenceResponse} "Conference"
// @Failure 404 {object} dto.ErrorResponse "Conference not found"
// @Router /admin/conferences/{id} [get]
func (c *ConferenceController) AdminGetConference(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	conf, err := c.conferenceService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conf, ""))
}

// ListConferences lists conferences newest first with their registration state.
// Serves both the public and the admin listing.
// @Summary List conferences
// @Tags conferences
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ConferenceResponse} "Conferences"
// @Router /conferences [get]
func (c *ConferenceController) ListConferences(ctx *gin.Context) {
	confs, err := c.conferenceService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(confs, ""))
}

// GetConferenceBySlug returns the public conference detail
// @Summary Conference detail
// @Description When signed in, the caller's registration is included
// @Tags conferences
// @Produce json
// @Param slug path string true "Conference slug"
// @Success 200 {object} dto.APIResponse{data=dto.ConferenceDetailResponse} "Conference"
// @Failure 404 {object} dto.ErrorResponse "Conference not found"
// @Router /conferences/{slug} [get]
func (c *ConferenceController) GetConferenceBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if !validation.SlugPattern.MatchString(slug) {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("会议不存在"))
		return
	}

	var principal *auth.Principal
	if p, ok := middleware.GetPrincipal(ctx); ok {
		principal = &p
	}

	detail, err := c.conferenceService.GetPublicBySlug(ctx.Request.Context(), slug, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail, ""))
}
