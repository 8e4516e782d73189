package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/validation"
)

// BindJSON decodes the request body into req and validates it. On failure the
// error response is written and false is returned.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrBadRequest, "invalid request body: "+err.Error()))
		return false
	}
	if err := validation.ValidateStruct(req); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}
