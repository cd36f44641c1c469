package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/damacus/s3-jukebox/internal/models"
	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

// MockPageLister implements library.PageLister for testing
type MockPageLister struct {
	mock.Mock
}

func (m *MockPageLister) ListPage(ctx context.Context, cursor string) (models.Page, error) {
	args := m.Called(ctx, cursor)
	return args.Get(0).(models.Page), args.Error(1)
}

// recordingRenderer remembers the last template and data it was asked to render
type recordingRenderer struct {
	name string
	data interface{}
}

func (r *recordingRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.name = name
	r.data = data
	_, err := io.WriteString(w, name)
	return err
}

func (r *recordingRenderer) view() LibraryView {
	v, _ := r.data.(LibraryView)
	return v
}

func newContext(e *echo.Echo, method, target string, form url.Values, sess *library.Session) (echo.Context, *httptest.ResponseRecorder) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(utils.ContextKeySession, sess)
	}
	return c, rec
}

func testTrack(key string, size int64, signedURL string) models.Track {
	return models.Track{Key: key, Name: key, Size: size, URL: signedURL}
}

func loadedSession(lister *MockPageLister, tracks ...models.Track) *library.Session {
	lister.On("ListPage", mock.Anything, "").Return(models.Page{Tracks: tracks}, nil).Once()
	sess := library.NewSession("sess", lister)
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		panic(err)
	}
	return sess
}

