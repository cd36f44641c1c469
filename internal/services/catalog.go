package services

import (
	"context"
	"strings"
	"time"

	"github.com/damacus/s3-jukebox/internal/models"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

// SignedURLExpiry is the validity window of every playback URL
const SignedURLExpiry = time.Hour

// signConcurrency bounds the presign calls in flight for one page
const signConcurrency = 8

// Lister produces catalog pages: one listing call, MP3 filter, signed URLs
type Lister struct {
	client   StorageClient
	bucket   string
	prefix   string
	pageSize int
	expiry   time.Duration
	metrics  *Metrics
	logger   *log.Logger
	now      func() time.Time
}

// ListerOption configures a Lister
type ListerOption func(*Lister)

// WithMetrics records page statistics on m
func WithMetrics(m *Metrics) ListerOption {
	return func(l *Lister) { l.metrics = m }
}

// WithLogger replaces the default "catalog" logger
func WithLogger(logger *log.Logger) ListerOption {
	return func(l *Lister) { l.logger = logger }
}

// NewLister creates a Lister for the given bucket and key prefix
func NewLister(client StorageClient, bucket, prefix string, opts ...ListerOption) *Lister {
	l := &Lister{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		pageSize: DefaultPageSize,
		expiry:   SignedURLExpiry,
		logger:   log.New("catalog"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListPage fetches the page starting at cursor (empty for the first page).
// Any list or sign error aborts the whole page and is returned as-is.
// A page can be empty yet still carry a cursor.
func (l *Lister) ListPage(ctx context.Context, cursor string) (models.Page, error) {
	start := time.Now()

	res, err := l.client.ListObjectsPage(ctx, l.bucket, ListObjectsOptions{
		Prefix:            l.prefix,
		MaxKeys:           l.pageSize,
		ContinuationToken: cursor,
	})
	if err != nil {
		l.logger.Errorf("list %s/%s failed: %v", l.bucket, l.prefix, err)
		l.metrics.observePage(err, 0, 0, time.Since(start))
		return models.Page{}, err
	}

	var objects []ObjectSummary
	for _, obj := range res.Objects {
		if IsTrackKey(obj.Key) {
			objects = append(objects, obj)
		}
	}

	tracks := make([]models.Track, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signConcurrency)
	for i, obj := range objects {
		g.Go(func() error {
			u, err := l.client.PresignedGetObject(gctx, l.bucket, obj.Key, l.expiry)
			if err != nil {
				return err
			}

			lastModified := obj.LastModified
			if lastModified.IsZero() {
				lastModified = l.now()
			}

			tracks[i] = models.Track{
				Key:          obj.Key,
				Name:         TrackName(obj.Key),
				Size:         obj.Size,
				LastModified: lastModified,
				URL:          u.String(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Errorf("sign %s/%s failed: %v", l.bucket, l.prefix, err)
		l.metrics.observePage(err, len(res.Objects), 0, time.Since(start))
		return models.Page{}, err
	}

	l.logger.Debugf("listed %d objects, %d tracks, more=%t", len(res.Objects), len(tracks), res.NextContinuationToken != "")
	l.metrics.observePage(nil, len(res.Objects), len(tracks), time.Since(start))

	return models.Page{
		Tracks: tracks,
		Cursor: res.NextContinuationToken,
	}, nil
}

// IsTrackKey reports whether key names an MP3 file
func IsTrackKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".mp3")
}

// TrackName is the last path segment of key, or key itself when it has no "/"
func TrackName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
