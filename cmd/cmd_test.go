package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobutil/config"
	"blobutil/internal/cmderr"
	"blobutil/internal/models"
	"blobutil/internal/storage"
	"blobutil/internal/storage/miniostore"
	"blobutil/internal/storage/storagetest"
)

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func runCmd(t *testing.T, client storage.Client, fs afero.Fs, args ...string) cmdResult {
	t.Helper()

	a := &app{
		cfg: &config.Config{Driver: config.DriverGCS, LogLevel: "warn"},
		open: func(context.Context, *config.Config) (storage.Client, error) {
			return client, nil
		},
		fs: fs,
	}

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd(a)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func sampleClient() *storagetest.Client {
	return storagetest.New("gs").
		Put("foo", "a", []byte("single")).
		Put("foo", "a/1.txt", []byte("one")).
		Put("foo", "a/b/2.txt", []byte("two")).
		Put("other", "x", nil)
}

func TestLsCommand(t *testing.T) {
	res := runCmd(t, sampleClient(), afero.NewMemMapFs(), "ls", "gs://foo/a/")
	require.NoError(t, res.err)

	want := "a/\n" +
		"├── 1.txt\n" +
		"└── b\n" +
		"    └── 2.txt\n"
	assert.Equal(t, want, res.stdout)
}

func TestLsCommandLong(t *testing.T) {
	res := runCmd(t, sampleClient(), afero.NewMemMapFs(), "ls", "-l", "gs://foo/a/b")
	require.NoError(t, res.err)
	assert.Equal(t, "a/b\n└── 2.txt (3 B)\n", res.stdout)
}

func TestLsCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		kind    error
		message string
	}{
		{"invalid url", []string{"ls", "foo"}, cmderr.ErrInvalidURL, "invalid URL foo"},
		{"scheme only", []string{"ls", "gs://"}, cmderr.ErrInvalidURL, "invalid URL gs://"},
		{"wrong scheme", []string{"ls", "s3://foo/a"}, cmderr.ErrInvalidURL, "invalid URL s3://foo/a"},
		{"missing bucket", []string{"ls", "gs://nope/a"}, cmderr.ErrBucketNotFound, "nope"},
		{"missing argument", []string{"ls"}, nil, "accepts 1 arg(s), received 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCmd(t, sampleClient(), afero.NewMemMapFs(), tt.args...)
			require.Error(t, res.err)
			if tt.kind != nil {
				assert.True(t, errors.Is(res.err, tt.kind))
			}
			assert.Contains(t, res.err.Error(), tt.message)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestCpCommandMissingArguments(t *testing.T) {
	for _, args := range [][]string{{"cp"}, {"cp", "-r"}, {"cp", "gs://foo/a"}} {
		res := runCmd(t, sampleClient(), afero.NewMemMapFs(), args...)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "accepts 2 arg(s)")
	}
}

func TestCpCommandSingleObject(t *testing.T) {
	client := storagetest.New("gs").Put("foo", "a", []byte("payload"))

	tests := []struct {
		name   string
		args   []string
		target string
	}{
		{"literal destination", []string{"cp", "gs://foo/a", "b"}, "b"},
		{"recursive keeps prefix segment", []string{"cp", "-r", "gs://foo/a", "b"}, filepath.Join("b", "a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			res := runCmd(t, client, fs, tt.args...)
			require.NoError(t, res.err)
			assert.Equal(t, "Copying gs://foo/a...\n", res.stdout)

			data, err := afero.ReadFile(fs, tt.target)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))
		})
	}
}

func TestCpCommandNoObjects(t *testing.T) {
	for _, args := range [][]string{{"cp", "gs://foo/a/_", "b"}, {"cp", "-r", "gs://foo/a/_", "b"}} {
		res := runCmd(t, sampleClient(), afero.NewMemMapFs(), args...)
		require.Error(t, res.err)
		assert.True(t, errors.Is(res.err, cmderr.ErrNoMatchingObjects))
		assert.Equal(t, "No URLs matched: gs://foo/a/_", res.err.Error())
		assert.Empty(t, res.stdout)
	}
}

func TestCpCommandMultipleObjectsWithoutRecursion(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("b", 0o755))

	res := runCmd(t, sampleClient(), fs, "cp", "gs://foo/a", "b")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, cmderr.ErrNoMatchingObjects))
	assert.Equal(t, "No URLs matched", res.err.Error())
	assert.Equal(t, "Omitting prefix \"gs://foo/a/\". (Did you mean to do cp -r?)\n", res.stdout)
}

func TestCpCommandRecursive(t *testing.T) {
	client := storagetest.New("gs").
		Put("foo", "a/1.txt", []byte("one")).
		Put("foo", "a/b/2.txt", []byte("two"))
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("localdir", 0o755))

	res := runCmd(t, client, fs, "cp", "-r", "gs://foo/a", "./localdir")
	require.NoError(t, res.err)
	assert.Equal(t, "Copying gs://foo/a/1.txt...\nCopying gs://foo/a/b/2.txt...\n", res.stdout)

	for path, want := range map[string]string{
		"localdir/a/1.txt":   "one",
		"localdir/a/b/2.txt": "two",
	} {
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestCpCommandRecursiveDestinationNotDirectory(t *testing.T) {
	res := runCmd(t, sampleClient(), afero.NewMemMapFs(), "cp", "-r", "gs://foo/a/", "missing")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, cmderr.ErrDestinationNotDirectory))
}

func TestCpCommandJSONSummary(t *testing.T) {
	client := storagetest.New("gs").
		Put("foo", "a/1.txt", []byte("one")).
		Put("foo", "a/b/2.txt", []byte("two")).
		Put("foo", "a/empty/", nil)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0o755))

	res := runCmd(t, client, fs, "cp", "-r", "--json", "gs://foo/a", "out")
	require.NoError(t, res.err)

	var result models.CopyResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &result))
	assert.Equal(t, "foo", result.BucketName)
	assert.Equal(t, "gs://foo/a", result.SourceURL)
	require.Len(t, result.Items, 3)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, int64(6), result.TotalSizeBytes)
	assert.Equal(t, 3, strings.Count(res.stderr, "Copying gs://foo/"))

	skipped := 0
	for _, item := range result.Items {
		if item.Skipped {
			skipped++
			assert.Equal(t, "a/empty/", item.RemoteKey)
		}
	}
	assert.Equal(t, 1, skipped)

	exists, err := afero.Exists(fs, filepath.Join("out", "a", "empty"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorageClientOpenedOnce(t *testing.T) {
	calls := 0
	client := sampleClient()
	a := &app{
		cfg: &config.Config{},
		open: func(context.Context, *config.Config) (storage.Client, error) {
			calls++
			return client, nil
		},
		fs: afero.NewMemMapFs(),
	}

	for i := 0; i < 2; i++ {
		got, err := a.storageClient(context.Background())
		require.NoError(t, err)
		assert.Same(t, client, got)
	}
	assert.Equal(t, 1, calls)
}

func TestStorageClientOpenError(t *testing.T) {
	boom := errors.New("no credentials")
	a := &app{
		cfg: &config.Config{Driver: config.DriverGCS, LogLevel: "warn"},
		open: func(context.Context, *config.Config) (storage.Client, error) {
			return nil, boom
		},
		fs: afero.NewMemMapFs(),
	}

	rootCmd := newRootCmd(a)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"ls", "gs://foo/a"})
	err := rootCmd.ExecuteContext(context.Background())
	assert.True(t, errors.Is(err, boom))
}

func TestInvalidURLReportedBeforeOpeningStorage(t *testing.T) {
	for _, args := range [][]string{{"ls", "foo"}, {"cp", "foo", "out"}, {"ls", "s3://foo/a"}} {
		opened := false
		a := &app{
			cfg: &config.Config{Driver: config.DriverGCS, LogLevel: "warn"},
			open: func(context.Context, *config.Config) (storage.Client, error) {
				opened = true
				return nil, errors.New("could not find default credentials")
			},
			fs: afero.NewMemMapFs(),
		}

		rootCmd := newRootCmd(a)
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		err := rootCmd.ExecuteContext(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, cmderr.ErrInvalidURL), err.Error())
		assert.False(t, opened)
	}
}

func TestOpenClient(t *testing.T) {
	client, err := openClient(context.Background(), &config.Config{
		Driver: config.DriverMinio,
		ApiURL: "localhost:9000",
	})
	require.NoError(t, err)
	assert.IsType(t, &miniostore.Client{}, client)

	_, err = openClient(context.Background(), &config.Config{Driver: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
