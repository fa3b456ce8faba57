// Package storagetest provides an in-memory storage.Client for tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"blobutil/internal/cmderr"
	"blobutil/internal/storage"
)

// Client is an in-memory storage.Client. Listings are returned in key order.
type Client struct {
	scheme  string
	buckets map[string]map[string][]byte

	// Downloads records the keys downloaded, in order.
	Downloads []string

	// FailKeys makes downloads of these keys fail.
	FailKeys map[string]error
}

var _ storage.Client = (*Client)(nil)

// New creates a client addressed by scheme.
func New(scheme string) *Client {
	return &Client{
		scheme:   scheme,
		buckets:  make(map[string]map[string][]byte),
		FailKeys: make(map[string]error),
	}
}

// Put stores data under bucket/key, creating the bucket if needed.
func (c *Client) Put(bucket, key string, data []byte) *Client {
	if c.buckets[bucket] == nil {
		c.buckets[bucket] = make(map[string][]byte)
	}
	c.buckets[bucket][key] = data
	return c
}

func (c *Client) Scheme() string { return c.scheme }

func (c *Client) Bucket(_ context.Context, name string) (storage.Bucket, error) {
	if _, ok := c.buckets[name]; !ok {
		return nil, fmt.Errorf("failed to get bucket %s: %w", name, cmderr.ErrBucketNotFound)
	}
	return &bucket{client: c, name: name}, nil
}

func (c *Client) Object(bucketName, key string) storage.Object {
	return &Object{client: c, bucket: bucketName, key: key, data: c.buckets[bucketName][key]}
}

type bucket struct {
	client *Client
	name   string
}

func (b *bucket) Name() string { return b.name }

func (b *bucket) List(_ context.Context, prefix string) ([]storage.Object, error) {
	var keys []string
	for key := range b.client.buckets[b.name] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	objects := make([]storage.Object, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, b.client.Object(b.name, key))
	}
	return objects, nil
}

// Object is an in-memory object handle.
type Object struct {
	client *Client
	bucket string
	key    string
	data   []byte
}

// NewObject creates a standalone handle not backed by a Client.
func NewObject(bucket, key string, data []byte) *Object {
	return &Object{bucket: bucket, key: key, data: data}
}

func (o *Object) BucketName() string { return o.bucket }
func (o *Object) Key() string        { return o.key }
func (o *Object) Size() int64        { return int64(len(o.data)) }

func (o *Object) Download(_ context.Context, sink storage.Sink) error {
	if o.client != nil {
		if err := o.client.FailKeys[o.key]; err != nil {
			return err
		}
		o.client.Downloads = append(o.client.Downloads, o.key)
	}
	if _, err := sink.Write(o.data); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.key, err)
	}
	return nil
}
