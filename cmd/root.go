package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"blobutil/config"
	"blobutil/internal/storage"
	"blobutil/pkg/logger"
	"blobutil/pkg/utils"
)

// opener builds the storage client for the configured driver.
type opener func(ctx context.Context, cfg *config.Config) (storage.Client, error)

// app carries the dependencies shared by the commands. The storage client
// is opened once, on first use.
type app struct {
	cfg    *config.Config
	open   opener
	fs     afero.Fs
	client storage.Client
}

func newApp(cfg *config.Config) *app {
	return &app{
		cfg:  cfg,
		open: openClient,
		fs:   afero.NewOsFs(),
	}
}

func (a *app) storageClient(ctx context.Context) (storage.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	client, err := a.open(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blobutil",
		Short: "List and copy objects from cloud object storage",
		Long: `blobutil mimics the ls and cp commands of cloud storage CLIs.

Objects are addressed as scheme://bucket/prefix, where the scheme follows the
configured driver: s3:// for S3 and MinIO, gs:// for Google Cloud Storage.
Configuration is loaded from .env file or environment variables`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if isVerbose(cmd) {
				logger.SetLevel("debug")
				return
			}
			logger.SetLevel(a.cfg.LogLevel)
		},
	}

	rootCmd.AddCommand(newLsCmd(a))
	rootCmd.AddCommand(newCpCmd(a))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	return rootCmd
}

// Execute runs the command line. Failures are reported as a JSON error on
// stderr and returned.
func Execute(ctx context.Context, cfg *config.Config) error {
	rootCmd := newRootCmd(newApp(cfg))
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		utils.PrintError(err, cmd.Name())
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return nil
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
