package internal

import "github.com/google/uuid"

// NewID mints a fresh entity identifier. Grounded on R3E-Network/service_layer's
// preference for uuid.UUID entity identifiers over bare sequence ints.
func NewID() uuid.UUID {
	return uuid.New()
}
