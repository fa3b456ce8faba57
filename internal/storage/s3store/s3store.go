// Package s3store is the storage driver for Amazon S3 and S3-compatible
// endpoints, built on aws-sdk-go-v2.
package s3store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	appConfig "blobutil/config"
	"blobutil/internal/cmderr"
	"blobutil/internal/storage"
	"blobutil/pkg/logger"
)

// API is the subset of *s3.Client the driver calls.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ API = (*s3.Client)(nil)

type Client struct {
	api        API
	downloader *manager.Downloader
}

var _ storage.Client = (*Client)(nil)

func New(ctx context.Context, cfg *appConfig.Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return NewFromAPI(s3Client), nil
}

// NewFromAPI wraps an existing S3 API client. Downloads run one part at a
// time.
func NewFromAPI(api API) *Client {
	return &Client{
		api: api,
		downloader: manager.NewDownloader(api, func(d *manager.Downloader) {
			d.Concurrency = 1
		}),
	}
}

func (c *Client) Scheme() string { return "s3" }

func (c *Client) Bucket(ctx context.Context, name string) (storage.Bucket, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		var apiErr smithy.APIError
		if !errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to get bucket %s: %w", name, err)
		}
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return nil, fmt.Errorf("failed to get bucket %s: %w", name, cmderr.ErrBucketNotFound)
		case "Forbidden", "AccessDenied":
			// Listing may still be allowed for credentials scoped to a prefix.
			logger.Log.Debug().Str("bucket", name).Msg("bucket head forbidden, continuing")
		default:
			return nil, fmt.Errorf("failed to get bucket %s: %w", name, err)
		}
	}

	return &bucket{client: c, name: name}, nil
}

func (c *Client) Object(bucketName, key string) storage.Object {
	return &object{client: c, bucket: bucketName, key: key}
}

type bucket struct {
	client *Client
	name   string
}

func (b *bucket) Name() string { return b.name }

func (b *bucket) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	var objects []storage.Object

	paginator := s3.NewListObjectsV2Paginator(b.client.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.name),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			objects = append(objects, &object{
				client: b.client,
				bucket: b.name,
				key:    aws.ToString(obj.Key),
				size:   aws.ToInt64(obj.Size),
			})
		}
	}

	return objects, nil
}

type object struct {
	client *Client
	bucket string
	key    string
	size   int64
}

func (o *object) BucketName() string { return o.bucket }
func (o *object) Key() string        { return o.key }
func (o *object) Size() int64        { return o.size }

func (o *object) Download(ctx context.Context, sink storage.Sink) error {
	_, err := o.client.downloader.Download(ctx, sink, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return fmt.Errorf("failed to download from S3: %w", err)
	}
	return nil
}
