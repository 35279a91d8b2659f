// Package claimsource provides pluggable source-of-truth backends for
// session claims and an adapter that turns a backend into a
// claims.FetchValueFunc.
//
// The claims framework never performs I/O itself: every claim delegates
// fetching to an application-supplied function. This package packages the
// common shapes of that function — an in-memory map for tests and small
// deployments, plus Redis, Postgres and MongoDB backends for real ones —
// behind one small Source interface keyed by (claim key, user id).
//
// A Source is where fresh values come from when a validator decides the
// cached payload entry is stale. It is not a cache of fetch results; every
// FetchValue call reaches the backend.
//
// # Usage
//
//	client, err := claimsource.ConnectRedis(ctx, redisCfg)
//	if err != nil {
//	    // handle error
//	}
//	src := claimsource.NewRedisSource(client)
//
//	roleClaim := claims.NewPrimitiveClaim("st-role",
//	    claims.WithFetchValue(claimsource.Fetcher(src, "st-role")),
//	)
//
// Writing to the source of truth (e.g. after an admin changes a user's role):
//
//	if err := src.Set(ctx, "st-role", userID, "admin"); err != nil {
//	    // handle error
//	}
//
// # Configuration
//
// Each backend has an env-tagged Config struct. Load populates any such
// struct from the environment, reading a .env file first when present:
//
//	var cfg claimsource.RedisConfig
//	if err := claimsource.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// # Errors
//
// Get returns ErrNotFound when the user has no value for the claim; the
// Fetcher adapter maps that to a nil value so the claims framework treats it
// as "no value" rather than a fetch failure. Connection helpers return
// sentinel errors (ErrRedisNotReady, ErrPostgresNotReady, ErrMongoNotReady)
// joined with the underlying driver error.
package claimsource
