package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"addressbook-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// runRepositoryTests runs the common address store suite against any backend.
func runRepositoryTests(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("List empty", func(t *testing.T) {
		addresses, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, addresses)
		assert.Empty(t, addresses)
	})

	var first, second models.Address

	t.Run("Create assigns fresh ids", func(t *testing.T) {
		var err error
		first, err = repo.Create(ctx, models.AddressCreate{Name: "Marunouchi", Latitude: 35.681236, Longitude: 139.767125})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)
		assert.Equal(t, "Marunouchi", first.Name)
		assert.Equal(t, 35.681236, first.Latitude)
		assert.Equal(t, 139.767125, first.Longitude)

		second, err = repo.Create(ctx, models.AddressCreate{Name: "Akasaka", Latitude: 35.675, Longitude: 139.732})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Create accepts out of range coordinates", func(t *testing.T) {
		odd, err := repo.Create(ctx, models.AddressCreate{Name: "nowhere", Latitude: 123.4, Longitude: -270})
		require.NoError(t, err)
		got, err := repo.Get(ctx, odd.ID)
		require.NoError(t, err)
		assert.Equal(t, odd, got)

		_, err = repo.Delete(ctx, odd.ID)
		require.NoError(t, err)
	})

	t.Run("Create and update accept long names", func(t *testing.T) {
		long := strings.Repeat("Chiyoda-ku Marunouchi ", 20)
		created, err := repo.Create(ctx, models.AddressCreate{Name: long, Latitude: 35.68, Longitude: 139.76})
		require.NoError(t, err)
		assert.Equal(t, long, created.Name)

		longer := long + long
		updated, err := repo.Update(ctx, created.ID, models.AddressUpdate{Name: ptr(longer)})
		require.NoError(t, err)
		assert.Equal(t, longer, updated.Name)

		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
	})

	t.Run("List returns insertion order", func(t *testing.T) {
		addresses, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Address{first, second}, addresses)
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, 999999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Update overwrites all fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, first.ID, models.AddressUpdate{
			Name:      ptr("Tokyo Station"),
			Latitude:  ptr(35.6812),
			Longitude: ptr(139.7671),
		})
		require.NoError(t, err)
		assert.Equal(t, models.Address{ID: first.ID, Name: "Tokyo Station", Latitude: 35.6812, Longitude: 139.7671}, updated)

		got, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
		first = updated
	})

	t.Run("Update leaves omitted fields untouched", func(t *testing.T) {
		updated, err := repo.Update(ctx, second.ID, models.AddressUpdate{Latitude: ptr(0.0)})
		require.NoError(t, err)
		assert.Equal(t, models.Address{ID: second.ID, Name: "Akasaka", Latitude: 0, Longitude: 139.732}, updated)
		second = updated
	})

	t.Run("Update missing", func(t *testing.T) {
		_, err := repo.Update(ctx, 999999, models.AddressUpdate{Name: ptr("ghost")})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Delete twice", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, deleted)

		_, err = repo.Delete(ctx, first.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		addresses, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Address{second}, addresses)
	})

	t.Run("Ids are not reused after delete", func(t *testing.T) {
		third, err := repo.Create(ctx, models.AddressCreate{Name: "Shinjuku", Latitude: 35.6896, Longitude: 139.7006})
		require.NoError(t, err)
		assert.Greater(t, third.ID, second.ID)
		assert.NotEqual(t, first.ID, third.ID)
	})
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	defer repo.Close()
	runRepositoryTests(t, repo)
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "addresses.db"))
	require.NoError(t, err)
	defer repo.Close()
	runRepositoryTests(t, repo)
}

func TestSQLiteRepository_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "addresses.db")

	repo, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	created, err := repo.Create(ctx, models.AddressCreate{Name: "Kyoto", Latitude: 35.0116, Longitude: 135.7681})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	addresses, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Address{created}, addresses)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		driver      string
		source      string
		expectError bool
	}{
		{name: "memory", driver: DriverMemory},
		{name: "sqlite", driver: DriverSQLite, source: filepath.Join(dir, "open.db")},
		{name: "unknown", driver: "redis", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := Open(context.Background(), tt.driver, tt.source)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, repo.Close())
		})
	}
}
