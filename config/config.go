package config

import (
	"strings"

	"blobutil/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
	DriverGCS   = "gcs"
)

type Config struct {
	Driver             string
	ApiURL             string
	AccessKey          string
	SecretKey          string
	Region             string
	UseSSL             bool
	GCSCredentialsFile string
	LogLevel           string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Log.Warn().Msg(".env file not found, using environment variables only")
	}

	v := viper.New()
	v.SetDefault("STORAGE_DRIVER", DriverS3)
	v.SetDefault("API_URL", "")
	v.SetDefault("ACCESS_KEY", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("REGION", "us-east-1")
	v.SetDefault("USE_SSL", true)
	v.SetDefault("GCS_CREDENTIALS_FILE", "")
	v.SetDefault("LOG_LEVEL", "warn")
	v.AutomaticEnv()

	config := &Config{
		Driver:             strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		ApiURL:             v.GetString("API_URL"),
		AccessKey:          v.GetString("ACCESS_KEY"),
		SecretKey:          v.GetString("SECRET_KEY"),
		Region:             v.GetString("REGION"),
		UseSSL:             v.GetBool("USE_SSL"),
		GCSCredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
	}

	return config, nil
}

// Scheme returns the URL scheme addressed by the configured driver.
func (c *Config) Scheme() string {
	if c.Driver == DriverGCS {
		return "gs"
	}
	return "s3"
}
