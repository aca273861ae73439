package eventstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/flagkit/pkg/experiment"
)

// Migrations holds the schema for the exposures table, applied with
// goose at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Postgres stores exposure events in an exposures table. It implements
// both experiment.Sink and experiment.Source.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates an exposure archive backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// RecordExposures appends a batch of exposures in one round-trip.
// Events whose IDs already exist are skipped, making retries safe.
func (p *Postgres) RecordExposures(ctx context.Context, events []experiment.Exposure) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO exposures (id, flag_key, variant, metric, occurred_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.FlagKey, e.Variant, e.Metric, e.At,
		)
	}

	results := p.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range events {
		if _, err := results.Exec(); err != nil {
			return errors.Join(ErrRecordFailed, err)
		}
	}
	return nil
}

// ListExposures returns the stored exposures for a flag, oldest first.
// Zero from/to values leave the corresponding bound open; both bounds
// are inclusive.
func (p *Postgres) ListExposures(ctx context.Context, flagKey string, from, to time.Time) ([]experiment.Exposure, error) {
	query := `SELECT id, flag_key, variant, metric, occurred_at FROM exposures WHERE flag_key = $1`
	args := []any{flagKey}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at, id"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []experiment.Exposure
	for rows.Next() {
		var e experiment.Exposure
		if err := rows.Scan(&e.ID, &e.FlagKey, &e.Variant, &e.Metric, &e.At); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return events, nil
}
