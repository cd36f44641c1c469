package services

import (
	"context"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/damacus/s3-jukebox/internal/config"
)

type s3Lister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// AWSClient implements StorageClient with aws-sdk-go-v2
type AWSClient struct {
	api       s3Lister
	presigner s3Presigner
}

func newAWSClient(cfg config.Config) (*AWSClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	host, secure := resolveEndpoint(cfg)
	scheme := "https://"
	if !secure {
		scheme = "http://"
	}
	custom := cfg.Endpoint != ""

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(scheme + host)
		o.UsePathStyle = custom
	})

	return &AWSClient{
		api:       client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

func (c *AWSClient) ListObjectsPage(ctx context.Context, bucketName string, opts ListObjectsOptions) (ListObjectsResult, error) {
	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultPageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		Prefix:  aws.String(opts.Prefix),
		MaxKeys: aws.Int32(int32(maxKeys)),
	}
	if opts.ContinuationToken != "" {
		input.ContinuationToken = aws.String(opts.ContinuationToken)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return ListObjectsResult{}, err
	}

	objects := make([]ObjectSummary, 0, len(out.Contents))
	for _, obj := range out.Contents {
		summary := ObjectSummary{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			summary.LastModified = *obj.LastModified
		}
		objects = append(objects, summary)
	}

	return ListObjectsResult{
		Objects:               objects,
		IsTruncated:           aws.ToBool(out.IsTruncated),
		NextContinuationToken: aws.ToString(out.NextContinuationToken),
	}, nil
}

func (c *AWSClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectName),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, err
	}
	return url.Parse(req.URL)
}
