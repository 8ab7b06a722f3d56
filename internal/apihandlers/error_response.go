package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the machine-readable failure detail carried by every
// non-2xx batch or classify response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps the detail in an "error" envelope so clients can
// tell failures from the "data" envelope of successful responses.
type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError writes the error envelope with an explicit status and code.
func JSONError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Shorthands for the statuses the handlers actually return.

func BadRequest(c *gin.Context, msg string) {
	JSONError(c, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(c *gin.Context, msg string) {
	JSONError(c, http.StatusNotFound, "not_found", msg)
}

func Conflict(c *gin.Context, msg string) {
	JSONError(c, http.StatusConflict, "conflict", msg)
}

func Internal(c *gin.Context, msg string) {
	JSONError(c, http.StatusInternalServerError, "internal_error", msg)
}
