package handler

import (
	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondError writes the canonical error payload for an error,
// folding unknown errors into an internal one so no raw error text
// leaks to clients.
func respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.StatusCode(), dto.ErrorResponse{
		Error:   appErr.Code(),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// respondBindError reports a request body that failed binding or
// validation.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperror.NewInvalidInput("validation failed").WithDetails(err.Error()))
}
