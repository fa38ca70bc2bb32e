package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"addressbook-api/internal/models"
	"addressbook-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []models.AddressCreate
		expectError bool
	}{
		{
			name:  "valid file",
			input: "name,latitude,longitude\nMarunouchi,35.681236,139.767125\n\"Akasaka, Minato\", 35.675 , 139.732\n",
			expected: []models.AddressCreate{
				{Name: "Marunouchi", Latitude: 35.681236, Longitude: 139.767125},
				{Name: "Akasaka, Minato", Latitude: 35.675, Longitude: 139.732},
			},
		},
		{
			name:     "header only",
			input:    "name,latitude,longitude\n",
			expected: nil,
		},
		{
			name:        "empty file",
			input:       "",
			expectError: true,
		},
		{
			name:        "short record",
			input:       "name,latitude,longitude\nMarunouchi,35.68\n",
			expectError: true,
		},
		{
			name:        "bad latitude",
			input:       "name,latitude,longitude\nMarunouchi,north,139.76\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := parseCSV(strings.NewReader(tt.input))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}

func TestImportRecords(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	_, err := repo.Create(ctx, models.AddressCreate{Name: "existing"})
	require.NoError(t, err)

	records := []models.AddressCreate{
		{Name: "Marunouchi", Latitude: 35.681236, Longitude: 139.767125},
		{Name: "Akasaka", Latitude: 35.675, Longitude: 139.732},
	}
	require.NoError(t, importRecords(ctx, repo, records))

	addresses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, "Akasaka", addresses[2].Name)
}

// failingStore rejects every Create and records whether it was closed.
type failingStore struct {
	*repository.MemoryRepository
	closed bool
}

func (s *failingStore) Create(context.Context, models.AddressCreate) (models.Address, error) {
	return models.Address{}, errors.New("store unavailable")
}

func (s *failingStore) Close() error {
	s.closed = true
	return nil
}

func TestImportAndClose(t *testing.T) {
	ctx := context.Background()
	records := []models.AddressCreate{{Name: "Marunouchi", Latitude: 35.681236, Longitude: 139.767125}}

	t.Run("closes the store after a failed import", func(t *testing.T) {
		store := &failingStore{MemoryRepository: repository.NewMemoryRepository()}

		err := importAndClose(ctx, store, records)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unavailable")
		assert.True(t, store.closed)
	})

	t.Run("closes the store after a successful import", func(t *testing.T) {
		store := repository.NewMemoryRepository()
		assert.NoError(t, importAndClose(ctx, store, records))
	})
}
