package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgTaskNotFound       = "Task not found"
	msgUserNotFound       = "User not found"
	msgAttachmentNotFound = "Attachment not found"
	msgNotAuthorized      = "User not authorized"
	msgInvalidData        = "Invalid data"
	msgServerError        = "Server Error"
	msgNoToken            = "Not authorized, no token"
	msgTokenFailed        = "Not authorized, token failed"
	msgUserExists         = "User already exists"
	msgBadCredentials     = "Invalid email or password"
	msgRefreshExpired     = "Refresh token expired"
)

type errorResponse struct {
	Message string `json:"message"`
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorResponse{Message: message})
}

// fail maps a service error onto a status code and a generic message.
// A foreign task is reported as 401, as existing clients expect.
func (s *HTTPServer) fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		abort(c, http.StatusBadRequest, msgInvalidData)
	case errors.Is(err, common.ErrorAlreadyExists):
		abort(c, http.StatusBadRequest, msgUserExists)
	case errors.Is(err, common.ErrorNotFound):
		abort(c, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrorForbidden):
		abort(c, http.StatusUnauthorized, msgNotAuthorized)
	case errors.Is(err, common.ErrorUnauthorized):
		abort(c, http.StatusUnauthorized, msgTokenFailed)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		abort(c, http.StatusUnauthorized, msgRefreshExpired)
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		abort(c, http.StatusInternalServerError, msgServerError)
	}
}
