package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/damacus/s3-jukebox/internal/config"
)

// DefaultPageSize is the number of objects requested per listing call
const DefaultPageSize = 100

// ListObjectsOptions selects one page of a prefix listing
type ListObjectsOptions struct {
	Prefix            string
	MaxKeys           int
	ContinuationToken string
}

// ObjectSummary is the subset of listing metadata the catalog uses
type ObjectSummary struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListObjectsResult contains one page of raw listing results
type ListObjectsResult struct {
	Objects               []ObjectSummary
	IsTruncated           bool
	NextContinuationToken string
}

// StorageClient is the storage provider surface the catalog consumes
type StorageClient interface {
	ListObjectsPage(ctx context.Context, bucketName string, opts ListObjectsOptions) (ListObjectsResult, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
}

// StorageFactory creates configured storage clients
type StorageFactory interface {
	NewClient(cfg config.Config) (StorageClient, error)
}

// RealStorageFactory is the production implementation. It builds a
// minio-go or aws-sdk-go-v2 client depending on cfg.Driver.
type RealStorageFactory struct{}

func (f *RealStorageFactory) NewClient(cfg config.Config) (StorageClient, error) {
	switch cfg.Driver {
	case config.DriverMinio, "":
		return newMinioClient(cfg)
	case config.DriverAWS:
		return newAWSClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// EndpointForRegion returns the regional S3 endpoint host
func EndpointForRegion(region string) string {
	return "s3." + region + ".amazonaws.com"
}

// resolveEndpoint returns the endpoint host and whether TLS should be used.
// An explicit scheme on the override decides TLS; otherwise shouldUseSSL does.
func resolveEndpoint(cfg config.Config) (host string, secure bool) {
	if cfg.Endpoint == "" {
		return EndpointForRegion(cfg.Region), true
	}

	switch {
	case strings.HasPrefix(cfg.Endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(cfg.Endpoint, "http://"), "/"), false
	case strings.HasPrefix(cfg.Endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(cfg.Endpoint, "https://"), "/"), true
	}
	return cfg.Endpoint, shouldUseSSL(cfg.Endpoint)
}

// shouldUseSSL determines if SSL should be used based on the endpoint.
// Returns false for localhost, 127.0.0.1, and docker service names.
func shouldUseSSL(endpoint string) bool {
	if endpoint == "localhost:9000" || endpoint == "127.0.0.1:9000" {
		return false
	}
	// Docker service names (minio:9000, minio1:9000, ...), not domain names like minio.example.com
	if strings.HasPrefix(endpoint, "minio") && !strings.Contains(strings.Split(endpoint, ":")[0], ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}
