package claimsource

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

// Load populates an env-tagged config struct (RedisConfig, PostgresConfig,
// MongoConfig or an application's own) from environment variables. A .env
// file in the working directory is read once per process if present; a
// missing file is not an error.
func Load[T any](cfg *T) error {
	dotenvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	if cfg == nil {
		return ErrNilConfig
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseConfig, err)
	}
	return nil
}
