package claimsource

import "errors"

var (
	// ErrNotFound indicates the user has no value for the claim
	ErrNotFound = errors.New("claimsource.not_found")

	// ErrInvalidKey indicates an empty claim key or user id
	ErrInvalidKey = errors.New("claimsource.invalid_key")

	// ErrEncodeValue indicates a claim value could not be serialized for storage
	ErrEncodeValue = errors.New("claimsource.encode_value_failed")

	// ErrDecodeValue indicates a stored claim value could not be deserialized
	ErrDecodeValue = errors.New("claimsource.decode_value_failed")

	// ErrRedisNotReady indicates redis did not become reachable within the
	// configured retry budget
	ErrRedisNotReady = errors.New("claimsource.redis_not_ready")

	// ErrParseRedisURL indicates the redis connection URL is invalid
	ErrParseRedisURL = errors.New("claimsource.parse_redis_url_failed")

	// ErrPostgresNotReady indicates postgres did not become reachable within
	// the configured retry budget
	ErrPostgresNotReady = errors.New("claimsource.postgres_not_ready")

	// ErrParsePostgresConfig indicates the postgres connection string is invalid
	ErrParsePostgresConfig = errors.New("claimsource.parse_postgres_config_failed")

	// ErrMigrationFailed indicates schema migrations could not be applied
	ErrMigrationFailed = errors.New("claimsource.migration_failed")

	// ErrMongoNotReady indicates mongo did not become reachable within the
	// configured retry budget
	ErrMongoNotReady = errors.New("claimsource.mongo_not_ready")

	// ErrNilConfig indicates Load was called with a nil pointer
	ErrNilConfig = errors.New("claimsource.nil_config")

	// ErrParseConfig indicates environment parsing into a config struct failed
	ErrParseConfig = errors.New("claimsource.parse_config_failed")
)
