package main

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/damacus/s3-jukebox/internal/config"
	"github.com/damacus/s3-jukebox/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

// MockStorageClient implements services.StorageClient for testing
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) ListObjectsPage(ctx context.Context, bucketName string, opts services.ListObjectsOptions) (services.ListObjectsResult, error) {
	args := m.Called(ctx, bucketName, opts)
	return args.Get(0).(services.ListObjectsResult), args.Error(1)
}

func (m *MockStorageClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

// MockStorageFactory implements services.StorageFactory for testing
type MockStorageFactory struct {
	mock.Mock
}

func (m *MockStorageFactory) NewClient(cfg config.Config) (services.StorageClient, error) {
	args := m.Called(cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.StorageClient), args.Error(1)
}

// MockRenderer implements echo.Renderer for testing
type MockRenderer struct{}

func (r *MockRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return nil // Successfully "rendered" nothing
}
