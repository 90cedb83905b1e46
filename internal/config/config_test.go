package config

import "testing"

// allEnvVars lists every env var Load reads, cleared between tests.
var allEnvVars = []string{
	"TRELLIS_DATABASE_URL", "TRELLIS_HTTP_ADDR", "TRELLIS_NATS_URL", "TRELLIS_AUTH_TOKEN",
	"TRELLIS_SCREENSHOT_S3_BUCKET", "TRELLIS_SCREENSHOT_S3_ENDPOINT",
	"TRELLIS_SCREENSHOT_S3_REGION", "TRELLIS_SCREENSHOT_S3_PREFIX",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddress",
			env:          map[string]string{"TRELLIS_DATABASE_URL": "postgres://localhost/trellis"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"TRELLIS_DATABASE_URL": "postgres://db:5432/trellis",
				"TRELLIS_HTTP_ADDR":    ":3000",
				"TRELLIS_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if c.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", c.HTTPAddr, tc.wantHTTPAddr)
			}
			if c.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", c.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_ScreenshotDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRELLIS_DATABASE_URL", "postgres://localhost/trellis")
	t.Setenv("TRELLIS_SCREENSHOT_S3_BUCKET", "trellis-uploads")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.ScreenshotS3Bucket != "trellis-uploads" {
		t.Errorf("ScreenshotS3Bucket = %q", c.ScreenshotS3Bucket)
	}
	if c.ScreenshotS3Region != "us-east-1" {
		t.Errorf("ScreenshotS3Region = %q, want us-east-1", c.ScreenshotS3Region)
	}
	if c.ScreenshotS3Prefix != "screenshots/" {
		t.Errorf("ScreenshotS3Prefix = %q, want screenshots/", c.ScreenshotS3Prefix)
	}
}
