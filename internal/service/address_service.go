package service

import (
	"context"
	"fmt"
	"time"

	"addressbook-api/internal/geo"
	"addressbook-api/internal/models"

	"github.com/rs/zerolog/log"
)

// publishTimeout bounds how long a mutation waits on the event publisher.
const publishTimeout = 2 * time.Second

// AddressService contains the business logic for address records and proximity queries
type AddressService struct {
	repo      AddressRepository
	publisher EventPublisher
	now       func() time.Time

	publishTimeout time.Duration
}

// AddressRepository interface for dependency injection
type AddressRepository interface {
	Create(ctx context.Context, in models.AddressCreate) (models.Address, error)
	Get(ctx context.Context, id int64) (models.Address, error)
	List(ctx context.Context) ([]models.Address, error)
	Update(ctx context.Context, id int64, in models.AddressUpdate) (models.Address, error)
	Delete(ctx context.Context, id int64) (models.Address, error)
}

// EventPublisher receives address lifecycle events after a mutation is committed
type EventPublisher interface {
	Publish(ctx context.Context, event models.AddressEvent) error
}

// NewAddressService creates a new address service. A nil publisher disables events.
func NewAddressService(repo AddressRepository, publisher EventPublisher) *AddressService {
	return &AddressService{repo: repo, publisher: publisher, now: time.Now, publishTimeout: publishTimeout}
}

// Create stores a new address
func (s *AddressService) Create(ctx context.Context, in models.AddressCreate) (models.Address, error) {
	address, err := s.repo.Create(ctx, in)
	if err != nil {
		return models.Address{}, fmt.Errorf("service: failed to create address: %w", err)
	}

	log.Info().Int64("id", address.ID).Str("name", address.Name).Msg("address created")
	s.publish(ctx, models.EventAddressCreated, address)
	return address, nil
}

// Get returns a single address
func (s *AddressService) Get(ctx context.Context, id int64) (models.Address, error) {
	address, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Address{}, fmt.Errorf("service: failed to get address %d: %w", id, err)
	}
	return address, nil
}

// List returns every live address
func (s *AddressService) List(ctx context.Context) ([]models.Address, error) {
	addresses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Update overwrites the provided fields of an existing address
func (s *AddressService) Update(ctx context.Context, id int64, in models.AddressUpdate) (models.Address, error) {
	address, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return models.Address{}, fmt.Errorf("service: failed to update address %d: %w", id, err)
	}

	log.Info().Int64("id", address.ID).Msg("address updated")
	s.publish(ctx, models.EventAddressUpdated, address)
	return address, nil
}

// Delete removes an address and returns its last state
func (s *AddressService) Delete(ctx context.Context, id int64) (models.Address, error) {
	address, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.Address{}, fmt.Errorf("service: failed to delete address %d: %w", id, err)
	}

	log.Info().Int64("id", address.ID).Msg("address deleted")
	s.publish(ctx, models.EventAddressDeleted, address)
	return address, nil
}

// ListWithinDistance returns the addresses within distanceKm of the given point, in store order
func (s *AddressService) ListWithinDistance(ctx context.Context, lat, lon, distanceKm float64) ([]models.Address, error) {
	addresses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}

	return geo.WithinDistance(addresses, lat, lon, distanceKm), nil
}

func (s *AddressService) publish(ctx context.Context, eventType models.EventType, address models.Address) {
	if s.publisher == nil {
		return
	}

	// The mutation is committed; publish even if the request was cancelled,
	// but never hold the response longer than publishTimeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	event := models.AddressEvent{Type: eventType, Address: address, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", string(eventType)).Int64("id", address.ID).Msg("failed to publish address event")
	}
}
