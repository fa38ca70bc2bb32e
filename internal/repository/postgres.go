package repository

import (
	"context"
	"errors"
	"fmt"

	"addressbook-api/internal/migrations"
	"addressbook-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepository implements the address store on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository on an already migrated pool
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres connects a pool to source and migrates the schema
func OpenPostgres(ctx context.Context, source string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: failed to reach database: %w", err)
	}
	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgresRepository(pool), nil
}

// MigratePostgres applies the embedded PostgreSQL migrations through pool
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, db, "pgx", migrations.Postgres, "postgres")
}

// Create inserts a new address and returns it with its generated ID
func (r *PostgresRepository) Create(ctx context.Context, in models.AddressCreate) (models.Address, error) {
	sql := `
		INSERT INTO addresses (name, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING id, name, latitude, longitude
	`

	var a models.Address
	err := r.db.QueryRow(ctx, sql, in.Name, in.Latitude, in.Longitude).Scan(
		&a.ID,
		&a.Name,
		&a.Latitude,
		&a.Longitude,
	)
	if err != nil {
		return models.Address{}, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	return a, nil
}

// Get returns the address with the given ID
func (r *PostgresRepository) Get(ctx context.Context, id int64) (models.Address, error) {
	sql := `
		SELECT id, name, latitude, longitude
		FROM addresses
		WHERE id = $1
	`

	var a models.Address
	err := r.db.QueryRow(ctx, sql, id).Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, notFoundOr(err, "failed to get address")
	}

	return a, nil
}

// List returns every address in insertion order
func (r *PostgresRepository) List(ctx context.Context) ([]models.Address, error) {
	sql := `
		SELECT id, name, latitude, longitude
		FROM addresses
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("repository: failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return addresses, nil
}

// Update overwrites the provided fields of an address in a single statement
func (r *PostgresRepository) Update(ctx context.Context, id int64, in models.AddressUpdate) (models.Address, error) {
	sql := `
		UPDATE addresses
		SET
			name = COALESCE($2, name),
			latitude = COALESCE($3, latitude),
			longitude = COALESCE($4, longitude)
		WHERE id = $1
		RETURNING id, name, latitude, longitude
	`

	var a models.Address
	err := r.db.QueryRow(ctx, sql, id, in.Name, in.Latitude, in.Longitude).Scan(
		&a.ID,
		&a.Name,
		&a.Latitude,
		&a.Longitude,
	)
	if err != nil {
		return models.Address{}, notFoundOr(err, "failed to update address")
	}

	return a, nil
}

// Delete removes an address and returns the row as it was before deletion
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (models.Address, error) {
	sql := `
		DELETE FROM addresses
		WHERE id = $1
		RETURNING id, name, latitude, longitude
	`

	var a models.Address
	err := r.db.QueryRow(ctx, sql, id).Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, notFoundOr(err, "failed to delete address")
	}

	return a, nil
}

// BulkCreate loads addresses with COPY
func (r *PostgresRepository) BulkCreate(ctx context.Context, in []models.AddressCreate) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"addresses"},
		[]string{"name", "latitude", "longitude"},
		pgx.CopyFromSlice(len(in), func(i int) ([]any, error) {
			return []any{in[i].Name, in[i].Latitude, in[i].Longitude}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy addresses: %w", err)
	}
	return n, nil
}

// Close releases the pool
func (r *PostgresRepository) Close() error {
	r.db.Close()
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return fmt.Errorf("repository: %s: %w", msg, err)
}
