// Package gcsstore is the storage driver for Google Cloud Storage (gs://).
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	appConfig "blobutil/config"
	"blobutil/internal/cmderr"
	blobstorage "blobutil/internal/storage"
)

type Client struct {
	gc *storage.Client
}

var _ blobstorage.Client = (*Client)(nil)

// New connects with application default credentials unless a credentials
// file or endpoint is configured.
func New(ctx context.Context, cfg *appConfig.Config) (*Client, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	if cfg.ApiURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.ApiURL))
	}
	return NewWithOptions(ctx, opts...)
}

func NewWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	gc, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Client{gc: gc}, nil
}

func (c *Client) Scheme() string { return "gs" }

func (c *Client) Bucket(ctx context.Context, name string) (blobstorage.Bucket, error) {
	if _, err := c.gc.Bucket(name).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("failed to get bucket %s: %w", name, cmderr.ErrBucketNotFound)
		}
		return nil, fmt.Errorf("failed to get bucket %s: %w", name, err)
	}
	return &bucket{client: c, name: name}, nil
}

func (c *Client) Object(bucketName, key string) blobstorage.Object {
	return &object{client: c, bucket: bucketName, key: key}
}

type bucket struct {
	client *Client
	name   string
}

func (b *bucket) Name() string { return b.name }

func (b *bucket) List(ctx context.Context, prefix string) ([]blobstorage.Object, error) {
	var objects []blobstorage.Object

	it := b.client.gc.Bucket(b.name).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		objects = append(objects, &object{
			client: b.client,
			bucket: b.name,
			key:    attrs.Name,
			size:   attrs.Size,
		})
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

func (o *object) Download(ctx context.Context, sink blobstorage.Sink) error {
	reader, err := o.client.gc.Bucket(o.bucket).Object(o.key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", o.key, err)
	}
	defer reader.Close()

	if _, err := io.Copy(sink, reader); err != nil {
		return fmt.Errorf("failed to download %s: %w", o.key, err)
	}
	return nil
}
