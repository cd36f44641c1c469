package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/labstack/echo/v4"
)

// downloadTimeout bounds a proxied download, including the body transfer
const downloadTimeout = 10 * time.Minute

type PlayerHandler struct {
	bucket string
	prefix string
	client *http.Client
}

// NewPlayerHandler creates the playback handler. client fetches signed URLs
// for downloads; nil uses a client with a generous timeout.
func NewPlayerHandler(bucket, prefix string, client *http.Client) *PlayerHandler {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	return &PlayerHandler{bucket: bucket, prefix: prefix, client: client}
}

// Select makes a track the playback target. Re-selecting the current track
// answers 204 so the playing audio element is left alone.
func (h *PlayerHandler) Select(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	key := c.FormValue("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Track key is required")
	}

	_, changed, err := sess.Select(key)
	if errors.Is(err, library.ErrTrackNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Track not found")
	}
	if err != nil {
		return err
	}
	if !changed {
		return c.NoContent(http.StatusNoContent)
	}

	return c.Render(http.StatusOK, "player_select", LibraryView{
		Snapshot:  sess.Snapshot(),
		Bucket:    h.bucket,
		Prefix:    h.prefix,
		CSRFToken: csrfToken(c),
	})
}

// Speed advances the playback rate and re-renders the speed control
func (h *PlayerHandler) Speed(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	sess.CycleSpeed()
	return c.Render(http.StatusOK, "speed_control", LibraryView{Snapshot: sess.Snapshot()})
}

// Download streams a track through the server so the browser saves it
// under its file name instead of navigating to the signed URL.
func (h *PlayerHandler) Download(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	track, ok := sess.Find(c.QueryParam("key"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Track not found")
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, track.URL, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Invalid track URL")
	}
	resp, err := h.client.Do(req)
	if err != nil {
		c.Logger().Errorf("download %s: %v", track.Key, err)
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to fetch track")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger().Errorf("download %s: storage answered %s", track.Key, resp.Status)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("Storage answered %s", resp.Status))
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	headers := c.Response().Header()
	headers.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": track.Name}))
	if length := resp.Header.Get(echo.HeaderContentLength); length != "" {
		headers.Set(echo.HeaderContentLength, length)
	}

	return c.Stream(http.StatusOK, contentType, resp.Body)
}
