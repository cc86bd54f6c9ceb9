package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
)

var ownedFlags = flagx.Owned{
	Value: []string{
		"-a", "-m", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
		"-detail-driver", "-cache-size", "-compensation-timeout", "-log-level",
	},
	Bool: []string{"-path-style"},
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty to disable
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-path-style              path-style S3 addressing (MinIO)
//	-detail-driver string    s3 or memory
//	-cache-size int          detail cache entries per collection
//	-compensation-timeout d  e.g. "10s"
//	-log-level string        debug, info, warn, error
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3PathStyle, "path-style", config.S3PathStyle, "use path-style S3 addressing")

	fs.StringVar(&config.DetailDriver, "detail-driver", config.DetailDriver, "detail store driver: s3 or memory")
	fs.IntVar(&config.DetailCacheSize, "cache-size", config.DetailCacheSize, "detail cache entries per collection (0 disables)")
	fs.DurationVar(&config.CompensationTimeout, "compensation-timeout", config.CompensationTimeout, "timeout for compensating writes")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
