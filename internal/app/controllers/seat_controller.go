package controllers

import (
	"fmt"
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

// SeatController handles seat-assignment import and lookup
type SeatController struct {
	seatService  services.SeatService
	maxSheetSize int64
}

// NewSeatController creates a new SeatController. Uploaded sheets larger
// than maxSheetSize bytes are rejected.
func NewSeatController(seatService services.SeatService, maxSheetSize int64) *SeatController {
	return &SeatController{
		seatService:  seatService,
		maxSheetSize: maxSheetSize,
	}
}

// UploadSeatAssignments replaces the seat dataset with an uploaded sheet
// @Summary Import seat assignments
// @Description Accepts .xlsx or .csv with the columns 姓名, 手机号, 会场, 席位, 所属会场的QQ群号. Replaces all existing rows.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Seat sheet"
// @Success 200 {object} dto.APIResponse{data=dto.SeatImportResponse} "Imported"
// @Failure 400 {object} dto.ErrorResponse "Malformed sheet"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /admin/seat-assignments/upload [post]
func (c *SeatController) UploadSeatAssignments(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, uploadFormError(err))
		return
	}
	if c.maxSheetSize > 0 && fileHeader.Size > c.maxSheetSize {
		middleware.HandleAPIError(ctx, apperrors.NewPayloadTooLargeError(c.maxSheetSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded seat sheet")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	imported, err := c.seatService.Import(ctx.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SeatImportResponse{Imported: imported},
		fmt.Sprintf("成功导入 %d 条记录", imported),
	))
}

// ListSeatAssignments pages through the imported dataset
// @Summary List seat assignments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Seat assignments"
// @Router /admin/seat-assignments [get]
func (c *SeatController) ListSeatAssignments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	seats, total, err := c.seatService.List(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      seats,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// QuerySeat is the public attendee seat lookup
// @Summary Look up a seat
// @Description Matches the name case-insensitively and the last four digits of the phone number
// @Tags seats
// @Accept json
// @Produce json
// @Param request body dto.SeatQueryRequest true "Name and phone suffix"
// @Success 200 {object} dto.APIResponse{data=dto.SeatQueryResponse} "Seat"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "No matching seat"
// @Router /seat-query [post]
func (c *SeatController) QuerySeat(ctx *gin.Context) {
	var req dto.SeatQueryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	seat, err := c.seatService.Lookup(ctx.Request.Context(), models.SeatQuery{
		Name:          req.Name,
		PhoneLastFour: req.PhoneLastFour,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SeatQueryResponse{
		Venue:   seat.Venue,
		Seat:    seat.Seat,
		QQGroup: seat.QQGroup,
	}, ""))
}
