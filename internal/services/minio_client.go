package services

import (
	"context"
	"net/url"
	"time"

	"github.com/damacus/s3-jukebox/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioCore is the part of *minio.Core we use
type minioCore interface {
	ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (minio.ListBucketV2Result, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// WrappedMinioClient wraps minio.Core to implement StorageClient
type WrappedMinioClient struct {
	core minioCore
}

func newMinioClient(cfg config.Config) (*WrappedMinioClient, error) {
	endpoint, secure := resolveEndpoint(cfg)
	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		// Pinning the region keeps presigning offline (no GetBucketLocation call)
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	// minio-go defaults to dual-stack hosts on amazonaws.com; sign for the plain regional endpoint
	core.SetS3EnableDualstack(false)
	return &WrappedMinioClient{core: core}, nil
}

func (c *WrappedMinioClient) ListObjectsPage(ctx context.Context, bucketName string, opts ListObjectsOptions) (ListObjectsResult, error) {
	if err := ctx.Err(); err != nil {
		return ListObjectsResult{}, err
	}

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultPageSize
	}

	// Empty delimiter lists the whole subtree under the prefix
	res, err := c.core.ListObjectsV2(bucketName, opts.Prefix, "", opts.ContinuationToken, "", maxKeys)
	if err != nil {
		return ListObjectsResult{}, err
	}

	objects := make([]ObjectSummary, 0, len(res.Contents))
	for _, obj := range res.Contents {
		objects = append(objects, ObjectSummary{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	result := ListObjectsResult{
		Objects:     objects,
		IsTruncated: res.IsTruncated,
	}
	if res.IsTruncated {
		result.NextContinuationToken = res.NextContinuationToken
	}
	return result, nil
}

func (c *WrappedMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	return c.core.PresignedGetObject(ctx, bucketName, objectName, expires, nil)
}
