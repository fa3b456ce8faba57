// Package transfer maps listed objects onto the local filesystem and
// downloads them one at a time.
package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"blobutil/internal/cmderr"
	"blobutil/internal/location"
	"blobutil/internal/models"
	"blobutil/internal/storage"
	"blobutil/pkg/logger"
	"blobutil/pkg/utils"
)

// Copier downloads objects into a local filesystem, writing progress lines
// to out.
type Copier struct {
	fs     afero.Fs
	out    io.Writer
	scheme string
}

// NewCopier returns a Copier writing files to fs and progress lines to out.
func NewCopier(fs afero.Fs, out io.Writer, scheme string) *Copier {
	return &Copier{
		fs:     fs,
		out:    out,
		scheme: scheme,
	}
}

// Copy downloads objects listed under loc into dest, in listing order.
//
// A single object copied without recursion goes to dest itself (or to its
// basename inside dest when dest is a directory). Otherwise every object
// keeps its path relative to the parent of the prefix's last segment, so
// copying prefix "a" puts key "a/b/2.txt" at dest/a/b/2.txt. The first
// failure aborts the remaining objects.
func (c *Copier) Copy(ctx context.Context, loc location.Location, objects []storage.Object, dest string, recursive bool) (*models.CopyResult, error) {
	startTime := time.Now()

	if len(objects) == 0 {
		return nil, cmderr.New("cp", cmderr.ErrNoMatchingObjects, "No URLs matched: %s", loc)
	}

	if len(objects) > 1 && !recursive {
		fmt.Fprintf(c.out, "Omitting prefix \"%s/\". (Did you mean to do cp -r?)\n", loc)
		return nil, cmderr.New("cp", cmderr.ErrNoMatchingObjects, "No URLs matched")
	}

	if len(objects) > 1 {
		isDir, err := afero.DirExists(c.fs, dest)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", dest, err)
		}
		if !isDir {
			return nil, cmderr.New("cp", cmderr.ErrDestinationNotDirectory,
				"Destination URL must name a directory, bucket, or bucket subdirectory for the multiple source form of the cp command.")
		}
	}

	result := &models.CopyResult{
		BucketName:    objects[0].BucketName(),
		SourceURL:     loc.String(),
		Destination:   dest,
		Recursive:     recursive,
		Items:         make([]models.CopyItem, 0, len(objects)),
		OperationTime: utils.FormatTime(startTime),
	}

	if len(objects) == 1 && !recursive {
		item, err := c.DownloadObject(ctx, objects[0], dest)
		if err != nil {
			return nil, err
		}
		result.Add(item)
	} else {
		for _, obj := range objects {
			target, err := LocalPath(dest, loc.Prefix, obj.Key())
			if err != nil {
				return nil, err
			}
			logger.Log.Debug().Str("key", obj.Key()).Str("path", target).Msg("planned download")

			if dir := filepath.Dir(target); dir != "" {
				if err := c.MkdirP(dir); err != nil {
					return nil, err
				}
			}

			item, err := c.DownloadObject(ctx, obj, target)
			if err != nil {
				return nil, err
			}
			result.Add(item)
		}
	}

	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)
	result.CopyDuration = time.Since(startTime).String()
	return result, nil
}

// LocalPath computes where key lands under dest when copying prefix
// recursively: dest, then the prefix's last segment, then the key's path
// below the prefix. Keys that would escape dest are rejected.
func LocalPath(dest, prefix, key string) (string, error) {
	trimmed := strings.TrimRight(prefix, "/")
	parent := trimmed[:strings.LastIndex(trimmed, "/")+1]

	rel := strings.TrimLeft(strings.TrimPrefix(key, parent), "/")
	if rel != "" && !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", cmderr.New("cp", cmderr.ErrInvalidDestination,
			"Refusing to download %s outside of %s", key, dest)
	}

	return filepath.Join(dest, filepath.FromSlash(rel)), nil
}

// MkdirP creates dir and any missing parents. An existing directory is not
// an error.
func (c *Copier) MkdirP(dir string) error {
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// DownloadObject transfers one object to target. A target ending in a path
// separator must be an existing directory; when target is a directory the
// object's basename is used inside it. Zero-byte folder placeholders are
// skipped without touching the filesystem.
func (c *Copier) DownloadObject(ctx context.Context, obj storage.Object, target string) (models.CopyItem, error) {
	fmt.Fprintf(c.out, "Copying %s://%s/%s...\n", c.scheme, obj.BucketName(), obj.Key())

	isDir, err := afero.DirExists(c.fs, target)
	if err != nil {
		return models.CopyItem{}, fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if hasTrailingSeparator(target) && !isDir {
		return models.CopyItem{}, cmderr.New("download", cmderr.ErrInvalidDestination,
			"Skipping attempt to download to filename ending with slash (%s).\n"+
				"This typically happens when downloading a subdirectory created by a web console.", target)
	}

	if isDir {
		target = filepath.Join(target, path.Base(obj.Key()))
	}

	item := models.CopyItem{
		RemoteKey: obj.Key(),
		LocalPath: target,
		Size:      obj.Size(),
	}

	if storage.IsPlaceholder(obj) {
		logger.Log.Debug().Str("key", obj.Key()).Msg("skipping folder placeholder")
		item.Skipped = true
		return item, nil
	}

	file, err := c.fs.Create(target)
	if err != nil {
		return models.CopyItem{}, fmt.Errorf("failed to create file %s: %w", target, err)
	}

	if err := obj.Download(ctx, file); err != nil {
		file.Close()
		if rmErr := c.fs.Remove(target); rmErr != nil {
			logger.Log.Warn().Err(rmErr).Str("path", target).Msg("failed to remove partial download")
		}
		return models.CopyItem{}, fmt.Errorf("failed to download %s to %s: %w", obj.Key(), target, err)
	}

	if err := file.Close(); err != nil {
		return models.CopyItem{}, fmt.Errorf("failed to close file %s: %w", target, err)
	}

	return item, nil
}

func hasTrailingSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator))
}
