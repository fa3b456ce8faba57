// Package location parses scheme://bucket/prefix object-storage URLs.
package location

import (
	"strings"

	"blobutil/internal/cmderr"
)

// Location is a parsed object-storage URL.
type Location struct {
	Scheme string
	Bucket string
	Prefix string
}

// Parse splits raw into bucket and key prefix. raw must start with
// scheme + "://" and contain a "/" after the bucket name; the prefix may be
// empty ("s3://bucket/" addresses the whole bucket).
func Parse(raw, scheme string) (Location, error) {
	marker := scheme + "://"
	if !strings.HasPrefix(raw, marker) {
		return Location{}, invalid(raw)
	}

	bucket, prefix, found := strings.Cut(strings.TrimPrefix(raw, marker), "/")
	if !found || bucket == "" {
		return Location{}, invalid(raw)
	}

	return Location{
		Scheme: scheme,
		Bucket: bucket,
		Prefix: prefix,
	}, nil
}

// BucketPathFromURL returns the bucket and key prefix addressed by raw.
func BucketPathFromURL(raw, scheme string) (string, string, error) {
	loc, err := Parse(raw, scheme)
	if err != nil {
		return "", "", err
	}
	return loc.Bucket, loc.Prefix, nil
}

func (l Location) String() string {
	return l.Scheme + "://" + l.Bucket + "/" + l.Prefix
}

// ObjectURL renders the URL of key inside the same bucket.
func (l Location) ObjectURL(key string) string {
	return l.Scheme + "://" + l.Bucket + "/" + key
}

func invalid(raw string) error {
	return cmderr.New("parse", cmderr.ErrInvalidURL, "invalid URL %s", raw)
}
