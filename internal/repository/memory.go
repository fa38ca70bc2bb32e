package repository

import (
	"context"
	"maps"
	"slices"
	"sync"

	"addressbook-api/internal/models"
)

// MemoryRepository keeps addresses in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	lastID    int64
	addresses map[int64]models.Address
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{addresses: make(map[int64]models.Address)}
}

// Create stores a new address under the next id
func (m *MemoryRepository) Create(_ context.Context, in models.AddressCreate) (models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	a := models.Address{ID: m.lastID, Name: in.Name, Latitude: in.Latitude, Longitude: in.Longitude}
	m.addresses[a.ID] = a
	return a, nil
}

// Get returns the address with the given id
func (m *MemoryRepository) Get(_ context.Context, id int64) (models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.addresses[id]
	if !ok {
		return models.Address{}, models.ErrNotFound
	}
	return a, nil
}

// List returns addresses ordered by ID, which is insertion order.
func (m *MemoryRepository) List(_ context.Context) ([]models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]models.Address, 0, len(m.addresses))
	for _, id := range slices.Sorted(maps.Keys(m.addresses)) {
		result = append(result, m.addresses[id])
	}
	return result, nil
}

// Update overwrites the provided fields of an address
func (m *MemoryRepository) Update(_ context.Context, id int64, in models.AddressUpdate) (models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok {
		return models.Address{}, models.ErrNotFound
	}
	in.Apply(&a)
	m.addresses[id] = a
	return a, nil
}

// Delete removes an address and returns its last state
func (m *MemoryRepository) Delete(_ context.Context, id int64) (models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok {
		return models.Address{}, models.ErrNotFound
	}
	delete(m.addresses, id)
	return a, nil
}

// Close is a no-op
func (m *MemoryRepository) Close() error {
	return nil
}
