package main

import (
	"context"
	"os"

	"blobutil/cmd"
	"blobutil/config"
	"blobutil/pkg/logger"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.SetLevel(cnf.LogLevel)

	if err := cmd.Execute(context.Background(), cnf); err != nil {
		logger.Log.Debug().Err(err).Msg("Failed to execute command")
		os.Exit(1)
	}
}
