package handlers

import (
	"errors"
	"net/http"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/labstack/echo/v4"
)

// LibraryView is the data every library template renders from
type LibraryView struct {
	library.Snapshot
	Bucket    string
	Prefix    string
	Error     string
	CSRFToken string
}

type LibraryHandler struct {
	bucket string
	prefix string
}

func NewLibraryHandler(bucket, prefix string) *LibraryHandler {
	return &LibraryHandler{bucket: bucket, prefix: prefix}
}

func (h *LibraryHandler) view(c echo.Context, sess *library.Session, listErr error) LibraryView {
	v := LibraryView{
		Snapshot:  sess.Snapshot(),
		Bucket:    h.bucket,
		Prefix:    h.prefix,
		CSRFToken: csrfToken(c),
	}
	if listErr != nil {
		v.Error = listErr.Error()
	}
	return v
}

// Index renders the library page, loading the first page on the first visit
func (h *LibraryHandler) Index(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	listErr := sess.EnsureLoaded(c.Request().Context())
	if listErr != nil {
		c.Logger().Errorf("initial listing failed: %v", listErr)
	}

	return c.Render(http.StatusOK, "library", h.view(c, sess, listErr))
}

// Table re-renders the table without changing the view state
func (h *LibraryHandler) Table(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "tracks", h.view(c, sess, nil))
}

// Search replaces the name filter and re-renders the table
func (h *LibraryHandler) Search(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	sess.SetSearchQuery(c.QueryParam("q"))
	return c.Render(http.StatusOK, "tracks", h.view(c, sess, nil))
}

// Sort toggles or switches the sort column and re-renders the table
func (h *LibraryHandler) Sort(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	field, ok := library.ParseSortField(c.FormValue("field"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown sort field")
	}

	sess.SetSort(field)
	return c.Render(http.StatusOK, "tracks", h.view(c, sess, nil))
}

// LoadMore appends the next page. A provider error is shown in the table
// banner with the tracks loaded so far.
func (h *LibraryHandler) LoadMore(c echo.Context) error {
	sess, err := GetSession(c)
	if err != nil {
		return err
	}

	_, listErr := sess.LoadMore(c.Request().Context())
	switch {
	case errors.Is(listErr, library.ErrLoadInFlight):
		return echo.NewHTTPError(http.StatusConflict, listErr.Error())
	case errors.Is(listErr, library.ErrNoMorePages):
		listErr = nil
	case listErr != nil:
		c.Logger().Errorf("loading next page failed: %v", listErr)
	}

	return c.Render(http.StatusOK, "tracks", h.view(c, sess, listErr))
}
