package cmd

import (
	"github.com/spf13/cobra"

	"blobutil/internal/location"
	"blobutil/internal/tree"
	"blobutil/pkg/logger"
)

func newLsCmd(a *app) *cobra.Command {
	lsCmd := &cobra.Command{
		Use:   "ls <url>",
		Short: "List objects under a prefix as a tree",
		Long: `List the objects whose keys start with the URL's prefix and print them as a
directory tree rooted at the prefix.

Directories are derived from "/" separators in object keys.`,
		Example: `  # List a folder
  blobutil ls s3://my-bucket/logs/2025

  # List a whole bucket with object sizes
  blobutil ls -l s3://my-bucket/

  # List from Google Cloud Storage (STORAGE_DRIVER=gcs)
  blobutil ls gs://my-bucket/data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLs(cmd, args)
		},
	}

	lsCmd.Flags().BoolP("long", "l", false, "Show object sizes")

	return lsCmd
}

func (a *app) runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	long, _ := cmd.Flags().GetBool("long")

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
		Str("bucket", loc.Bucket).
		Str("prefix", loc.Prefix).
		Int("objects", len(objects)).
		Msg("listed objects")

	root := tree.FromObjects(objects, loc.Prefix)
	logger.Log.Debug().Int("nodes", root.Len()).Msg("built tree")
	return tree.Render(cmd.OutOrStdout(), root, tree.RenderOptions{Sizes: long})
}
