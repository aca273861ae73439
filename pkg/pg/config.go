package pg

import "time"

// Config holds PostgreSQL pool settings, loaded from the environment.
type Config struct {
	// ConnectionString is the database URL.
	ConnectionString string `env:"PG_CONN_URL,required"`

	// Pool limits and connection lifetimes.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	// Startup connection retries.
	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`

	// MigrationsDir is the directory inside the migrations filesystem.
	MigrationsDir string `env:"PG_MIGRATIONS_DIR" envDefault:"migrations"`

	// MigrationsTable stores the applied migration versions.
	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
