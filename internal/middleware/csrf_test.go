package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFServer() *echo.Echo {
	e := echo.New()
	e.Use(CSRF())
	e.GET("/", func(c echo.Context) error {
		token, _ := c.Get(utils.ContextKeyCSRF).(string)
		return c.String(http.StatusOK, token)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.POST("/player/speed", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func fetchToken(t *testing.T, e *echo.Echo) (string, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token := strings.TrimSpace(rec.Body.String())
	require.NotEmpty(t, token)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "csrf" {
			assert.True(t, cookie.HttpOnly)
			return token, cookie
		}
	}
	t.Fatal("csrf cookie not set")
	return "", nil
}

func TestCSRFMiddlewareRejectsPostWithoutToken(t *testing.T) {
	for _, htmx := range []bool{true, false} {
		e := newCSRFServer()
		req := httptest.NewRequest(http.MethodPost, "/player/speed", strings.NewReader("x=1"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "htmx=%t", htmx)
	}
}

func TestCSRFMiddlewareRejectsMismatchedToken(t *testing.T) {
	e := newCSRFServer()
	_, cookie := fetchToken(t, e)

	req := httptest.NewRequest(http.MethodPost, "/player/speed", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", "forged")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareAllowsPostWithTokenHeaderAndCookie(t *testing.T) {
	e := newCSRFServer()
	token, cookie := fetchToken(t, e)

	req := httptest.NewRequest(http.MethodPost, "/player/speed", strings.NewReader("x=1"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddlewareSkipsProbes(t *testing.T) {
	e := newCSRFServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}
