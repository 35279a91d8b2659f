package claimsource

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// PostgresConfig describes the connection to a Postgres database holding
// claim values.
type PostgresConfig struct {
	ConnectionString string        `env:"CLAIMS_PG_CONN_URL,required"`                 // ConnectionString is the pgx connection string.
	MaxOpenConns     int32         `env:"CLAIMS_PG_MAX_OPEN_CONNS" envDefault:"10"`    // MaxOpenConns is the maximum number of pooled connections.
	MaxIdleConns     int32         `env:"CLAIMS_PG_MAX_IDLE_CONNS" envDefault:"5"`     // MaxIdleConns is the minimum number of idle pooled connections.
	RetryAttempts    int           `env:"CLAIMS_PG_RETRY_ATTEMPTS" envDefault:"3"`     // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval    time.Duration `env:"CLAIMS_PG_RETRY_INTERVAL" envDefault:"5s"`    // RetryInterval is the base wait between attempts, growing linearly.
	MigrationsTable  string        `env:"CLAIMS_PG_MIGRATIONS_TABLE" envDefault:"claim_schema_migrations"` // MigrationsTable tracks applied migrations.
}

// ConnectPostgres establishes a pgx connection pool with linear-backoff
// retry, verifying it with a ping before handing it out.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrParsePostgresConfig, err)
	}
	poolConfig.MaxConns = cfg.MaxOpenConns
	poolConfig.MinConns = cfg.MaxIdleConns

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err := pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrPostgresNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrPostgresNotReady
}

// logger is the structured-logging surface Migrate needs. Compatible with
// slog, it routes goose output through the application's logger instead of
// stdout.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Migrate applies the embedded schema migrations that create the claim_values
// table. Goose needs a database/sql handle, so the pgx pool is bridged via
// stdlib; the wrapper shares the pool's connections.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig, log logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration db handle", "error", err)
		}
	}(db)

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	goose.SetTableName(cfg.MigrationsTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// gooseLogger bridges goose's Printf-style logging to the structured logger.
type gooseLogger struct {
	ctx context.Context
	log logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.ErrorContext(l.ctx, fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.InfoContext(l.ctx, fmt.Sprintf(format, v...))
}

// PostgresSource implements Source on top of the claim_values table created
// by Migrate. Values are stored in a jsonb column.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a Source backed by the given pgx pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Get returns the stored value for (claimKey, userID) or ErrNotFound.
func (s *PostgresSource) Get(ctx context.Context, claimKey, userID string) (any, error) {
	if err := validateKey(claimKey, userID); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM claim_values WHERE claim_key = $1 AND user_id = $2`,
		claimKey, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, errors.Join(ErrDecodeValue, err)
	}
	return value, nil
}

// Set stores the value for (claimKey, userID), overwriting any previous one.
func (s *PostgresSource) Set(ctx context.Context, claimKey, userID string, value any) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncodeValue, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO claim_values (claim_key, user_id, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (claim_key, user_id)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		claimKey, userID, raw,
	)
	return err
}

// Delete removes the value for (claimKey, userID).
func (s *PostgresSource) Delete(ctx context.Context, claimKey, userID string) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM claim_values WHERE claim_key = $1 AND user_id = $2`,
		claimKey, userID,
	)
	return err
}
