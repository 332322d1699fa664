package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "PriceSigner/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover returns recovery middleware. Panics answer 500 internal_error.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(perr),
						applogger.String("stack", string(debug.Stack())),
					)
					err = c.JSON(http.StatusInternalServerError, map[string]string{
						"error":  "internal_error",
						"detail": "internal server error",
					})
				}
			}()
			return next(c)
		}
	}
}
