package middleware

import (
	"net/http"
	"strings"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/damacus/s3-jukebox/internal/services"
	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/labstack/echo/v4"
)

// SessionMiddleware resolves the JukeboxSession cookie to a stored session.
// Only the library page starts a new session; other routes run without one
// and the handlers answer 401.
func SessionMiddleware(sealer *services.SessionSealer, store *library.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip for public routes
			path := c.Request().URL.Path
			if path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/") {
				return next(c)
			}

			sess, cookie := lookupSession(c, sealer, store)
			if sess != nil {
				c.Set(utils.ContextKeySession, sess)
				return next(c)
			}

			if path != "/" || c.Request().Method != http.MethodGet {
				if cookie != nil {
					// Stale or invalid cookie - clear it
					cookie.MaxAge = -1
					cookie.Path = "/"
					c.SetCookie(cookie)
				}
				return next(c)
			}

			sess = store.Create()
			sealed, err := sealer.Seal(sess.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
			}
			c.SetCookie(&http.Cookie{
				Name:     utils.CookieName,
				Value:    sealed,
				Path:     "/",
				HttpOnly: true,
				Secure:   isSecureRequest(c),
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(utils.ContextKeySession, sess)

			return next(c)
		}
	}
}

// lookupSession returns the live session named by the cookie, plus the
// cookie itself when one was sent.
func lookupSession(c echo.Context, sealer *services.SessionSealer, store *library.Store) (*library.Session, *http.Cookie) {
	cookie, err := c.Cookie(utils.CookieName)
	if err != nil {
		return nil, nil
	}

	id, err := sealer.Open(cookie.Value)
	if err != nil {
		c.Logger().Debugf("discarding unreadable session cookie: %v", err)
		return nil, cookie
	}

	sess, ok := store.Get(id)
	if !ok {
		return nil, cookie
	}
	return sess, cookie
}
