package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL string // TRELLIS_DATABASE_URL (required)
	HTTPAddr    string // TRELLIS_HTTP_ADDR (default ":8080")
	NATSURL     string // TRELLIS_NATS_URL (optional, empty = no events)
	AuthToken   string // TRELLIS_AUTH_TOKEN (optional, empty = auth disabled)

	// Screenshot storage. Bug report screenshots go to S3 when a bucket is
	// configured; otherwise upload requests are rejected.
	ScreenshotS3Bucket   string // TRELLIS_SCREENSHOT_S3_BUCKET (enables S3 when set)
	ScreenshotS3Endpoint string // TRELLIS_SCREENSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	ScreenshotS3Region   string // TRELLIS_SCREENSHOT_S3_REGION (default "us-east-1")
	ScreenshotS3Prefix   string // TRELLIS_SCREENSHOT_S3_PREFIX (default "screenshots/")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:          os.Getenv("TRELLIS_DATABASE_URL"),
		HTTPAddr:             envOrDefault("TRELLIS_HTTP_ADDR", ":8080"),
		NATSURL:              os.Getenv("TRELLIS_NATS_URL"),
		AuthToken:            os.Getenv("TRELLIS_AUTH_TOKEN"),
		ScreenshotS3Bucket:   os.Getenv("TRELLIS_SCREENSHOT_S3_BUCKET"),
		ScreenshotS3Endpoint: os.Getenv("TRELLIS_SCREENSHOT_S3_ENDPOINT"),
		ScreenshotS3Region:   envOrDefault("TRELLIS_SCREENSHOT_S3_REGION", "us-east-1"),
		ScreenshotS3Prefix:   envOrDefault("TRELLIS_SCREENSHOT_S3_PREFIX", "screenshots/"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TRELLIS_DATABASE_URL is required")
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
