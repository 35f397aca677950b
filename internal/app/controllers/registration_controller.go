package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/middleware"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// RegistrationController handles conference registrations
type RegistrationController struct {
	registrationService services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

// CreateRegistration registers the caller for a conference
// @Summary Register for a conference
// @Description Creates a PENDING, UNPAID registration while the registration window is open
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRegistrationRequest true "Conference to register for"
// @Success 201 {object} dto.APIResponse{data=models.Registration} "Registration created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or window not open"
// @Failure 401 {object} dto.ErrorResponse "Not signed in"
// @Failure 404 {object} dto.ErrorResponse "Conference not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /registrations [post]
func (c *RegistrationController) CreateRegistration(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.CreateRegistrationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.Create(ctx.Request.Context(), principal, req.ConferenceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg, "报名成功"))
}

// UploadAcademicTest stores the caller's academic test document
// @Summary Upload academic test
// @Description Accepts PDF, Word, JPEG or PNG documents for conferences that require a test
// @Tags registrations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Test document"
// @Param conferenceId formData int true "Conference ID"
// @Success 200 {object} dto.APIResponse{data=dto.UploadTestResponse} "Document stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or test not required"
// @Failure 404 {object} dto.ErrorResponse "Conference or registration not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /registrations/upload-test [post]
func (c *RegistrationController) UploadAcademicTest(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var form dto.UploadTestForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, uploadFormError(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded test file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	resp, err := c.registrationService.SubmitAcademicTest(ctx.Request.Context(), principal, form.ConferenceID, services.TestUpload{
		Filename:     fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "学术测试上传成功"))
}

// ListMyRegistrations lists the caller's registrations
// @Summary My registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Registration} "Registrations"
// @Failure 401 {object} dto.ErrorResponse "Not signed in"
// @Router /registrations/mine [get]
func (c *RegistrationController) ListMyRegistrations(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	regs, err := c.registrationService.ListMine(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(regs, ""))
}

// ListRegistrations lists all registrations for administrators
// @Summary List registrations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Registration status"
// @Param conferenceId query int false "Conference ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Registrations"
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Router /admin/registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	var query dto.RegistrationListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := models.RegistrationFilter{Offset: offset, Limit: limit}
	if query.Status != "" {
		status := models.RegistrationStatus(query.Status)
		filter.Status = &status
	}
	if query.ConferenceID > 0 {
		filter.ConferenceID = &query.ConferenceID
	}

	regs, total, err := c.registrationService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      regs,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// UpdateStatus overwrites a registration's review status
// @Summary Update registration status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param request body dto.UpdateRegistrationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /admin/registrations/{id}/status [put]
func (c *RegistrationController) UpdateStatus(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateRegistrationStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.SetStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reg, "报名状态已更新"))
}

// UpdatePayment records a manual payment state
// @Summary Update payment status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param request body dto.UpdatePaymentRequest true "Payment state"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /admin/registrations/{id}/payment [put]
func (c *RegistrationController) UpdatePayment(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.SetPayment(ctx.Request.Context(), id, req.Status, req.TransactionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reg, "支付状态已更新"))
}

// UpdateTestScore records an academic test score
// @Summary Update test score
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param request body dto.UpdateTestScoreRequest true "Score between 0 and 100"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Score out of range"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /admin/registrations/{id}/test-score [put]
func (c *RegistrationController) UpdateTestScore(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateTestScoreRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.SetTestScore(ctx.Request.Context(), id, *req.Score)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reg, "测试成绩已更新"))
}

// uploadFormError distinguishes a missing file part from a malformed multipart body
func uploadFormError(err error) error {
	if errors.Is(err, http.ErrMissingFile) {
		return apperrors.NewValidationError("file", "请选择要上传的文件")
	}
	return apperrors.NewBadRequestError("上传内容格式不正确")
}
