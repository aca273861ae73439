// Package pg provides utilities for PostgreSQL via the pgx/v5 driver:
// pooled connections with startup retries, goose schema migrations
// from an embedded filesystem, a readiness probe, and error
// classification helpers.
//
// Config fields are populated from environment variables. Connect
// opens a *pgxpool.Pool and retries until the database is reachable;
// Migrate brings the schema up to date before the service starts
// serving traffic.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, eventstore.Migrations, cfg, log); err != nil {
//		return err
//	}
package pg
