package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads every key", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_grpc":              "www.example:9000",
			"metrics_addr":                    "",
			"database_dsn":                    "postgres://x",
			"secret_key":                      "my_secret_key",
			"access_token_validity_duration":  "1m",
			"refresh_token_validity_duration": "3m",
			"detail_driver":                   "memory",
			"detail_cache_size":               0,
			"s3_root_user":                    "user",
			"s3_root_password":                "password",
			"s3_bucket":                       "bucket",
			"s3_region":                       "region",
			"s3_base_endpoint":                "base_endpoint",
			"s3_path_style":                   false,
			"compensation_timeout":            "2s",
			"log_level":                       "warn",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := defaults()
		parseJson(cfg)

		assert.Empty(t, cmp.Diff(&Config{
			EndpointAddrGRPC:             "www.example:9000",
			MetricsAddr:                  "",
			DatabaseDSN:                  "postgres://x",
			SecretKey:                    "my_secret_key",
			AccessTokenValidityDuration:  time.Minute,
			RefreshTokenValidityDuration: 3 * time.Minute,
			DetailDriver:                 "memory",
			DetailCacheSize:              0,
			S3RootUser:                   "user",
			S3RootPassword:               "password",
			S3Bucket:                     "bucket",
			S3Region:                     "region",
			S3BaseEndpoint:               "base_endpoint",
			S3PathStyle:                  false,
			CompensationTimeout:          2 * time.Second,
			LogLevel:                     "warn",
		}, cfg))
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"s3_bucket": "other"})
		os.Args = []string{"testbin", "-c", path}

		cfg := defaults()
		parseJson(cfg)

		want := defaults()
		want.S3Bucket = "other"
		assert.Equal(t, want, cfg)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := defaults()
		parseJson(cfg)
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", path}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
