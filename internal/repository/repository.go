package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"addressbook-api/internal/models"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Repository is the address record store implemented by every backend.
type Repository interface {
	Create(ctx context.Context, in models.AddressCreate) (models.Address, error)
	Get(ctx context.Context, id int64) (models.Address, error)
	List(ctx context.Context) ([]models.Address, error)
	Update(ctx context.Context, id int64, in models.AddressUpdate) (models.Address, error)
	Delete(ctx context.Context, id int64) (models.Address, error)
	Close() error
}

// BulkCreator is implemented by backends that can load many addresses in a
// single round trip.
type BulkCreator interface {
	BulkCreate(ctx context.Context, in []models.AddressCreate) (int64, error)
}

// Open connects to the store selected by driver, applies pending migrations
// and returns a ready repository.
func Open(ctx context.Context, driver, source string) (Repository, error) {
	switch driver {
	case DriverPostgres, "":
		repo, err := OpenPostgres(ctx, source)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverSQLite:
		repo, err := OpenSQLite(ctx, source)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverMemory:
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("repository: unknown driver %q (supported: postgres, sqlite, memory)", driver)
	}
}

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

func migrate(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("repository: failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("repository: failed to run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Str("component", "goose").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Str("component", "goose").Msgf(format, v...)
}
