// Package miniostore is the storage driver for S3-compatible services
// reached through minio-go.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appConfig "blobutil/config"
	"blobutil/internal/cmderr"
	"blobutil/internal/storage"
)

type Client struct {
	mc *minio.Client
}

var _ storage.Client = (*Client)(nil)

func New(cfg *appConfig.Config) (*Client, error) {
	endpoint, secure, err := normalizeEndpoint(cfg.ApiURL, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{mc: mc}, nil
}

// normalizeEndpoint accepts either host[:port] or a full http(s) URL and
// returns the host form minio-go expects.
func normalizeEndpoint(raw string, useSSL bool) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("minio endpoint must be provided (API_URL)")
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return strings.TrimSuffix(raw, "/"), useSSL, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid minio endpoint %s: %w", raw, err)
	}
	return u.Host, u.Scheme == "https", nil
}

func (c *Client) Scheme() string { return "s3" }

func (c *Client) Bucket(ctx context.Context, name string) (storage.Bucket, error) {
	ok, err := c.mc.BucketExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("failed to get bucket %s: %w", name, cmderr.ErrBucketNotFound)
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

	for info := range b.client.mc.ListObjects(ctx, b.name, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", info.Err)
		}
		objects = append(objects, &object{
			client: b.client,
			bucket: b.name,
			key:    info.Key,
			size:   info.Size,
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

func (o *object) Download(ctx context.Context, sink storage.Sink) error {
	reader, err := o.client.mc.GetObject(ctx, o.bucket, o.key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", o.key, err)
	}
	defer reader.Close()

	if _, err := io.Copy(sink, reader); err != nil {
		return fmt.Errorf("failed to download %s: %w", o.key, err)
	}
	return nil
}
