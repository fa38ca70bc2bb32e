package models

import "time"

// EventType names an address lifecycle transition.
type EventType string

const (
	EventAddressCreated EventType = "address.created"
	EventAddressUpdated EventType = "address.updated"
	EventAddressDeleted EventType = "address.deleted"
)

// AddressEvent is emitted after an address mutation has been committed.
type AddressEvent struct {
	Type       EventType `json:"type"`
	Address    Address   `json:"address"`
	OccurredAt time.Time `json:"occurred_at"`
}
