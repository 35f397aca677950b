package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes the 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}

// PathID parses a positive integer path parameter. On failure it writes a
// validation error and returns false.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(c, apperrors.NewValidationError(name, "无效的ID"))
		return 0, false
	}
	return id, true
}
