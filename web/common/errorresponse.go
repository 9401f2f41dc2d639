package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MohsenMaaleki/windsightai/core"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// RenderError maps the core error taxonomy onto HTTP statuses and writes
// the JSON body. Unknown errors become an opaque 500 — callers never see
// a stack trace or driver internals.
func RenderError(c *gin.Context, err error) {
	var (
		validationErr *core.ValidationError
		conflictErr   *core.ConflictError
		notFoundErr   *core.NotFoundError
		authErr       *core.AuthError
		analysisErr   *core.AnalysisFailedError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, NewErrorResponse(validationErr.Message))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, NewErrorResponse(conflictErr.Message))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, NewErrorResponse(notFoundErr.Error()))
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, NewErrorResponse(authErr.Error()))
	case errors.As(err, &analysisErr):
		c.JSON(http.StatusInternalServerError, NewErrorResponse(analysisErr.Error()))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
	}
}
