// Package storage defines the object-storage client the commands depend on.
// Drivers live in the s3store, miniostore and gcsstore subpackages.
package storage

import (
	"context"
	"io"
	"strings"
)

// Client is a connection to one object-storage service.
type Client interface {
	// Scheme is the URL scheme addressing this service ("s3", "gs").
	Scheme() string

	// Bucket looks up a bucket by name. Missing buckets yield an error
	// wrapping cmderr.ErrBucketNotFound.
	Bucket(ctx context.Context, name string) (Bucket, error)

	// Object builds a handle for bucket/key without listing it first.
	// Its size is unknown and reported as zero.
	Object(bucket, key string) Object
}

// Bucket lists objects.
type Bucket interface {
	Name() string

	// List returns every object whose key starts with prefix, in the
	// order the service reports them.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Object is a handle to a remote object.
type Object interface {
	BucketName() string
	Key() string
	Size() int64

	// Download writes the object's bytes to sink.
	Download(ctx context.Context, sink Sink) error
}

// Sink receives downloaded bytes. *os.File and afero.File satisfy it.
type Sink interface {
	io.Writer
	io.WriterAt
}

// IsPlaceholder reports whether o is a zero-byte "directory marker" such as
// those created by web consoles for empty folders.
func IsPlaceholder(o Object) bool {
	return strings.HasSuffix(o.Key(), "/") && o.Size() == 0
}
