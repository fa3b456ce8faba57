package cmd

import (
	"github.com/spf13/cobra"

	"blobutil/internal/location"
	"blobutil/internal/transfer"
	"blobutil/pkg/logger"
	"blobutil/pkg/utils"
)

func newCpCmd(a *app) *cobra.Command {
	cpCmd := &cobra.Command{
		Use:   "cp [-r] <url> <dir>",
		Short: "Copy objects from a bucket to a local path",
		Long: `Copy the objects whose keys start with the URL's prefix to a local path.

A single matching object is written to <dir> itself, or into it when <dir> is
an existing directory. Copying more than one object requires --recursive and
an existing destination directory; the directory structure below the prefix's
last segment is recreated under <dir>.

Objects are downloaded one at a time, in listing order. The first failure
stops the copy.`,
		Example: `  # Download one object
  blobutil cp s3://my-bucket/reports/latest.csv ./latest.csv

  # Download a folder, keeping its structure (creates ./backup/logs/...)
  blobutil cp -r s3://my-bucket/logs ./backup

  # Print a JSON summary of what was copied
  blobutil cp -r --json gs://my-bucket/data ./data`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCp(cmd, args)
		},
	}

	cpCmd.Flags().BoolP("recursive", "r", false, "Copy every object under the prefix, keeping directory structure")
	cpCmd.Flags().Bool("json", false, "Print a JSON summary of the copy")

	return cpCmd
}

func (a *app) runCp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recursive, _ := cmd.Flags().GetBool("recursive")
	asJSON, _ := cmd.Flags().GetBool("json")
	destination := args[1]

	loc, err := location.Parse(args[0], a.cfg.Scheme())
	if err != nil {
		return err
	}

	client, err := a.storageClient(ctx)
	if err != nil {
		return err
	}

	bucket, err := client.Bucket(ctx, loc.Bucket)
	if err != nil {
		return err
	}

	objects, err := bucket.List(ctx, loc.Prefix)
	if err != nil {
		return err
	}

	logger.Log.Debug().
		Str("source", loc.String()).
		Str("destination", destination).
		Bool("recursive", recursive).
		Int("objects", len(objects)).
		Msg("starting copy")

	// Keep stdout parseable when it carries the JSON summary.
	progress := cmd.OutOrStdout()
	if asJSON {
		progress = cmd.ErrOrStderr()
	}

	copier := transfer.NewCopier(a.fs, progress, loc.Scheme)
	result, err := copier.Copy(ctx, loc, objects, destination, recursive)
	if err != nil {
		return err
	}

	logger.Log.Debug().
		Int("files", result.TotalFiles).
		Str("size", result.TotalSizeHuman).
		Str("duration", result.CopyDuration).
		Msg("copy completed")

	if asJSON {
		return utils.FprintJSON(cmd.OutOrStdout(), result)
	}
	return nil
}
