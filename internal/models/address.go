package models

// Address represents a single named point with its geographic coordinates.
type Address struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AddressCreate carries the fields of a new address. The store assigns the ID.
type AddressCreate struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// AddressUpdate carries the fields to overwrite on an existing address.
// A nil field was not provided and keeps its stored value.
type AddressUpdate struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
}

// Apply overwrites the provided fields of a.
func (u AddressUpdate) Apply(a *Address) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Latitude != nil {
		a.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		a.Longitude = *u.Longitude
	}
}
