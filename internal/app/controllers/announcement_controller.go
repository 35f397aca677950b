package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
)

// AnnouncementController handles announcement endpoints
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

// CreateAnnouncement handles announcement creation
// @Summary Create an announcement
// @Description publishedAt is set when the status is PUBLISHED
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement} "Created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /admin/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}
	var req dto.AnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ann, err := c.announcementService.Create(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(ann, "公告已创建"))
}

// UpdateAnnouncement handles announcement updates
// @Summary Update an announcement
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ann, err := c.announcementService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ann, "公告已更新"))
}

// AdminListAnnouncements lists announcements of every status
// @Summary List all announcements
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements"
// @Router /admin/announcements [get]
func (c *AnnouncementController) AdminListAnnouncements(ctx *gin.Context) {
	anns, err := c.announcementService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(anns, ""))
}

// AdminGetAnnouncement returns one announcement regardless of status
// @Summary Get an announcement
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [get]
func (c *AnnouncementController) AdminGetAnnouncement(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	ann, err := c.announcementService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ann, ""))
}

// ListPublishedAnnouncements is the public announcement feed
// @Summary Published announcements
// @Tags announcements
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements"
// @Router /announcements [get]
func (c *AnnouncementController) ListPublishedAnnouncements(ctx *gin.Context) {
	anns, err := c.announcementService.ListPublished(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(anns, ""))
}

// GetPublishedAnnouncement returns a published announcement
// @Summary Get a published announcement
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found or not published"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetPublishedAnnouncement(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	ann, err := c.announcementService.GetPublished(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ann, ""))
}
