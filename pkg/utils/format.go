package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"blobutil/internal/models"
	"blobutil/pkg/logger"

	"github.com/dustin/go-humanize"
)

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FprintJSON writes data to w as indented JSON.
func FprintJSON(w io.Writer, data interface{}) error {
	jsonOutput, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(jsonOutput)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// PrintError writes err as a JSON ErrorResponse to stderr.
func PrintError(err error, command string) {
	errorResp := models.ErrorResponse{
		Error:     err.Error(),
		Timestamp: FormatTime(time.Now()),
		Command:   command,
	}
	if err := FprintJSON(os.Stderr, errorResp); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to print error in JSON format")
		fmt.Fprintln(os.Stderr, "Error: ", errorResp.Error)
	}
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
