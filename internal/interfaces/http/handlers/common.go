// Common helpers shared by the HTTP handlers.

package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/juberis/reqtrack/pkg/errors"
)

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps err to its HTTP status and writes the error envelope.
func respondError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Code:    errors.GetCode(err).String(),
		Message: err.Error(),
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Detail = appErr.Detail
	}
	c.AbortWithStatusJSON(errors.HTTPStatus(err), resp)
}

// respondValidation is a shortcut for request binding and parsing failures.
func respondValidation(c *gin.Context, message string) {
	respondError(c, errors.InvalidInput(message))
}
