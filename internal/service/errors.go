package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAvailableItems is returned when every item in the cart failed the
	// availability pre-check; no orders are created in that case.
	ErrNoAvailableItems = errors.New("no available items in cart")

	// ErrStoreUnavailable marks infrastructure failures of the inventory or
	// order store. Checkout fails closed on it: an item is never guessed to
	// be available or reserved.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDuplicateCartLine is returned when two cart lines share the same
	// (listing, seller, size, variant) key.
	ErrDuplicateCartLine = errors.New("duplicate cart line")
)

func storeUnavailable(cause error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, cause)
}

// Per-item failure reasons, used in logs and item outcomes.
const (
	ReasonUnavailable  = "unavailable"
	ReasonNotFound     = "not_found"
	ReasonAlreadySold  = "already_sold"
	ReasonPriceChanged = "price_changed"
)
