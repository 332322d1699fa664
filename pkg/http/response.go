package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as a 200 JSON body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// TextResponse writes a plain text 200 body.
func TextResponse(c echo.Context, text string) error {
	return c.String(http.StatusOK, text)
}

// ErrorResponse writes {error, detail} with the error's status.
func ErrorResponse(c echo.Context, appErr *AppError) error {
	return c.JSON(appErr.Status, appErr)
}

// InternalServerErrorResponse writes a generic 500.
func InternalServerErrorResponse(c echo.Context, detail string) error {
	return ErrorResponse(c, InternalError(detail))
}

// AppErrorResponse writes application error response. Errors that are not
// an *AppError become internal_error with their message as detail.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr)
	}
	return InternalServerErrorResponse(c, err.Error())
}
