package handlers

import (
	"net/http"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/labstack/echo/v4"
)

// GetSession retrieves the visitor session set by the session middleware
func GetSession(c echo.Context) (*library.Session, error) {
	val := c.Get(utils.ContextKeySession)
	if val == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No session")
	}
	sess, ok := val.(*library.Session)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No session")
	}
	return sess, nil
}

// csrfToken returns the token the CSRF middleware stored for this request
func csrfToken(c echo.Context) string {
	token, _ := c.Get(utils.ContextKeyCSRF).(string)
	return token
}
