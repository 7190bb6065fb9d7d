package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/travel-search/internal/travel"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the search log.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// clampLimit maps a caller-supplied limit into [1, maxListLimit].
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// RecordSearch inserts a search log row and returns its ID.
func (r *Repository) RecordSearch(ctx context.Context, rec travel.SearchRecord) (int64, error) {
	const q = `
		INSERT INTO searches (destination, travel_date, nights, outcome, hotels, flights, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.q.QueryRow(ctx, q,
		rec.Destination,
		rec.Date,
		rec.Duration,
		rec.Outcome,
		rec.Hotels,
		rec.Flights,
		rec.ElapsedMS,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("recording search for %s: %w", rec.Destination, err)
	}

	return id, nil
}

// RecentSearches returns the newest log rows first.
func (r *Repository) RecentSearches(ctx context.Context, limit int) ([]travel.SearchRecord, error) {
	const q = `
		SELECT id, destination, travel_date, nights, outcome, hotels, flights, elapsed_ms, created_at
		FROM searches
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, q, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying recent searches: %w", err)
	}
	defer rows.Close()

	results := []travel.SearchRecord{}
	for rows.Next() {
		var rec travel.SearchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Destination,
			&rec.Date,
			&rec.Duration,
			&rec.Outcome,
			&rec.Hotels,
			&rec.Flights,
			&rec.ElapsedMS,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search rows: %w", err)
	}

	return results, nil
}

// TopDestinations returns the most searched destinations, case-insensitively
// grouped, counting successful searches only.
func (r *Repository) TopDestinations(ctx context.Context, limit int) ([]travel.DestinationCount, error) {
	const q = `
		SELECT MIN(destination), COUNT(*)
		FROM searches
		WHERE outcome = $1
		GROUP BY LOWER(destination)
		ORDER BY COUNT(*) DESC, MIN(destination)
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, q, travel.OutcomeSuccess, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying top destinations: %w", err)
	}
	defer rows.Close()

	results := []travel.DestinationCount{}
	for rows.Next() {
		var dc travel.DestinationCount
		if err := rows.Scan(&dc.Destination, &dc.Searches); err != nil {
			return nil, fmt.Errorf("scanning destination count row: %w", err)
		}
		results = append(results, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating destination count rows: %w", err)
	}

	return results, nil
}
