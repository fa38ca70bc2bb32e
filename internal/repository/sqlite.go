package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"addressbook-api/internal/migrations"
	"addressbook-api/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository stores addresses in a single SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an open, migrated database handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("repository: failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open sqlite: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single shared connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: failed to enable WAL: %w", err)
	}
	if err := migrate(ctx, db, "sqlite3", migrations.SQLite, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLiteRepository(db), nil
}

// Create inserts a new address and returns it with its id
func (r *SQLiteRepository) Create(ctx context.Context, in models.AddressCreate) (models.Address, error) {
	query := `INSERT INTO addresses (name, latitude, longitude)
		VALUES (?, ?, ?)
		RETURNING id, name, latitude, longitude`

	var a models.Address
	err := r.db.QueryRowContext(ctx, query, in.Name, in.Latitude, in.Longitude).
		Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, fmt.Errorf("repository: failed to insert address: %w", err)
	}
	return a, nil
}

// Get retrieves an address by id
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (models.Address, error) {
	query := `SELECT id, name, latitude, longitude FROM addresses WHERE id = ?`

	var a models.Address
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, sqlNotFoundOr(err, "failed to get address")
	}
	return a, nil
}

// List returns all addresses ordered by id
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Address, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM addresses ORDER BY id`)
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

// Update overwrites the provided fields of an address in one statement
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in models.AddressUpdate) (models.Address, error) {
	query := `UPDATE addresses
		SET name = COALESCE(?, name),
			latitude = COALESCE(?, latitude),
			longitude = COALESCE(?, longitude)
		WHERE id = ?
		RETURNING id, name, latitude, longitude`

	var a models.Address
	err := r.db.QueryRowContext(ctx, query, in.Name, in.Latitude, in.Longitude, id).
		Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, sqlNotFoundOr(err, "failed to update address")
	}
	return a, nil
}

// Delete removes an address and returns its last state
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (models.Address, error) {
	query := `DELETE FROM addresses WHERE id = ? RETURNING id, name, latitude, longitude`

	var a models.Address
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude)
	if err != nil {
		return models.Address{}, sqlNotFoundOr(err, "failed to delete address")
	}
	return a, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func sqlNotFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return fmt.Errorf("repository: %s: %w", msg, err)
}
