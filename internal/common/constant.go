package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Store names used in StoreError and in metric labels.
const (
	StorePostgres = "postgres"
	StoreS3       = "s3"
	StoreMemory   = "memory"
)
