package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
	"github.com/dmitrijs2005/lostfound/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "90s" style
// strings or integer nanoseconds. Pointer fields distinguish "absent" from
// an explicit zero value.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  *string        `json:"metrics_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	DetailDriver                 string         `json:"detail_driver"`
	DetailCacheSize              *int           `json:"detail_cache_size"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PathStyle                  *bool          `json:"s3_path_style"`
	CompensationTimeout          timex.Duration `json:"compensation_timeout"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file leave the current value alone. Unreadable or
// malformed files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.DetailDriver, c.DetailDriver)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.DetailCacheSize != nil {
		config.DetailCacheSize = *c.DetailCacheSize
	}
	if c.S3PathStyle != nil {
		config.S3PathStyle = *c.S3PathStyle
	}
	if d := c.AccessTokenValidityDuration.Duration; d > 0 {
		config.AccessTokenValidityDuration = d
	}
	if d := c.RefreshTokenValidityDuration.Duration; d > 0 {
		config.RefreshTokenValidityDuration = d
	}
	if d := c.CompensationTimeout.Duration; d > 0 {
		config.CompensationTimeout = d
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
