package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/natal/internal/contracts"
)

// ErrNoSample is returned by a Store when no row brackets the instant
var ErrNoSample = errors.New("ephemeris: no sample")

// Sample is one precomputed longitude
type Sample struct {
	Body      contracts.Body
	At        time.Time // UTC
	Longitude float64
}

// Store persists precomputed longitudes
type Store interface {
	// Bracket returns the last sample at or before t and the first sample
	// after t. When a sample falls exactly on t, after may equal before.
	Bracket(ctx context.Context, body contracts.Body, t time.Time) (before, after Sample, err error)

	// SaveBatch upserts samples
	SaveBatch(ctx context.Context, samples []Sample) error
}

// Schema creates the daily longitude table
const Schema = `
CREATE SCHEMA IF NOT EXISTS ephemeris;

CREATE TABLE IF NOT EXISTS ephemeris.daily_longitudes (
	body       TEXT             NOT NULL,
	epoch      TIMESTAMPTZ      NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL CHECK (longitude >= 0 AND longitude < 360),
	created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (body, epoch)
);
`

// PostgresStore implements Store on ephemeris.daily_longitudes
// ⭐ SSOT: 천문력 테이블 저장소는 여기서만
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the table when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure ephemeris schema: %w", err)
	}
	return nil
}

// Bracket implements Store
func (s *PostgresStore) Bracket(ctx context.Context, body contracts.Body, t time.Time) (Sample, Sample, error) {
	before, err := s.one(ctx, `
		SELECT epoch, longitude
		FROM ephemeris.daily_longitudes
		WHERE body = $1 AND epoch <= $2
		ORDER BY epoch DESC
		LIMIT 1
	`, body, t)
	if err != nil {
		return Sample{}, Sample{}, err
	}
	if before.At.Equal(t) {
		return before, before, nil
	}

	after, err := s.one(ctx, `
		SELECT epoch, longitude
		FROM ephemeris.daily_longitudes
		WHERE body = $1 AND epoch > $2
		ORDER BY epoch ASC
		LIMIT 1
	`, body, t)
	if err != nil {
		return Sample{}, Sample{}, err
	}
	return before, after, nil
}

func (s *PostgresStore) one(ctx context.Context, query string, body contracts.Body, t time.Time) (Sample, error) {
	smp := Sample{Body: body}
	err := s.pool.QueryRow(ctx, query, string(body), t.UTC()).Scan(&smp.At, &smp.Longitude)
	if err == pgx.ErrNoRows {
		return Sample{}, ErrNoSample
	}
	if err != nil {
		return Sample{}, err
	}
	smp.At = smp.At.UTC()
	return smp, nil
}

// SaveBatch implements Store
func (s *PostgresStore) SaveBatch(ctx context.Context, samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO ephemeris.daily_longitudes (body, epoch, longitude)
		VALUES ($1, $2, $3)
		ON CONFLICT (body, epoch) DO UPDATE SET
			longitude = EXCLUDED.longitude`

	for _, smp := range samples {
		batch.Queue(query, string(smp.Body), smp.At.UTC(), smp.Longitude)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range samples {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored samples for body
func (s *PostgresStore) Count(ctx context.Context, body contracts.Body) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM ephemeris.daily_longitudes WHERE body = $1`, string(body),
	).Scan(&n)
	return n, err
}
