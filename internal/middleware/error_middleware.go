package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// HandleAPIError maps an error to its status code and writes the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorAPIResponse(detail))
}

func errorDetail(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	errors.As(err, &custom)

	withDetails := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if custom != nil && custom.Details != nil {
			d.Details = custom.Details
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.HandleValidationError(err)
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withDetails(dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error()))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, withDetails(dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, withDetails(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()))
	case errors.Is(err, apperrors.ErrEventStarted):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeEventStarted, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, withDetails(dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// Recovery turns a panic into a 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorAPIResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}

// NoRoute answers unknown paths with the error envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorAPIResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "route not found")))
}
