package middleware

import (
	"net/http"

	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// CSRF validates the X-CSRF-Token header on every state-changing request.
// The layout copies the token from a meta tag into each HTMX request, so
// the cookie never has to be readable from script.
func CSRF() echo.MiddlewareFunc {
	return echoMiddleware.CSRFWithConfig(echoMiddleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token",
		ContextKey:     utils.ContextKeyCSRF,
		CookieName:     "csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteStrictMode,
		Skipper: func(c echo.Context) bool {
			switch c.Request().URL.Path {
			case "/health", "/metrics":
				return true
			}
			return false
		},
	})
}
