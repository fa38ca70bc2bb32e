package models

import "errors"

// ErrNotFound is returned when the referenced address does not exist.
var ErrNotFound = errors.New("address not found")
