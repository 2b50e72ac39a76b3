package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Version reported in every response envelope.
const Version = "1.0.0"

// SuccessResponse writes a success envelope with data.
func SuccessResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// ErrorResponse writes an error envelope with the given status.
func ErrorResponse(c echo.Context, status int, message, code, detail string) error {
	return c.JSON(status, APIResponse{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:   code,
			Detail: detail,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// BadRequestResponse writes a 400 envelope for request validation failures.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusBadRequest, APIResponse{
		Success:   false,
		Message:   http.StatusText(http.StatusBadRequest),
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// InternalServerErrorResponse writes a 500 envelope.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", "INTERNAL_ERROR", "")
}
