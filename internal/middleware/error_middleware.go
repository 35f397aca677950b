package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

const msgInternalError = "服务器内部错误，请稍后重试"

// errorMapping ties an error category to its HTTP status, code and fallback message
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: the first matching category wins.
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "邮箱或密码错误"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "登录已过期，请重新登录"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "登录状态无效，请重新登录"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "请先登录"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "没有权限执行此操作"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "请求数据格式不正确"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "请求无效"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "资源不存在"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "资源已存在"},
	{apperrors.ErrInvalidState, http.StatusBadRequest, dto.ErrorCodeInvalidState, "当前状态不允许此操作"},
	{apperrors.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMediaType, "不支持的文件类型"},
	{apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "文件过大"},
}

// HandleAPIError is the single place where service errors become HTTP responses.
// Unknown errors are logged and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if userMsg, ok := apperrors.UserMessage(err); ok {
			message = userMsg
		}
		detail := dto.NewErrorDetail(m.code, message)
		if field := apperrors.FieldOf(err); field != "" {
			detail = detail.WithField(field)
		}
		if details := apperrors.DetailsOf(err); len(details) > 0 {
			detail = detail.WithDetails(details)
		}
		if m.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error while processing request")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, msgInternalError)))
}

// HandleBindError answers a failed ShouldBind* call with the first failing
// field's message.
func HandleBindError(c *gin.Context, err error) {
	detail := dto.HandleValidationError(err).WithSeverity(dto.ErrorSeverityWarning)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
