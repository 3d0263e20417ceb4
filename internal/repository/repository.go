package repository

import (
	"context"

	"github.com/heatdrop/marketplace-backend/internal/entity"
)

// ListingRepository handles persistence for Listings (the inventory store).
type ListingRepository interface {
	// FindByIDs returns the rows for every id that exists; missing ids are
	// simply absent from the result, not an error. Duplicate ids are allowed.
	FindByIDs(ctx context.Context, ids []string) ([]entity.Listing, error)
	FindByID(ctx context.Context, id string) (*entity.Listing, error)
	// MarkSold performs the conditional transition active -> sold, stamping
	// orderID as the claim token. It returns true iff exactly one row changed.
	MarkSold(ctx context.Context, listingID, orderID string) (bool, error)
	FindAll(ctx context.Context) ([]entity.Listing, error)
	// Seed inserts initial listings if none exist.
	Seed(ctx context.Context, listings []entity.Listing) error
}

// OrderRepository handles persistence for Orders.
type OrderRepository interface {
	// Insert writes an order for an authenticated buyer; order.BuyerID must
	// be non-empty.
	Insert(ctx context.Context, order *entity.Order) error
	// InsertGuest writes a guest order through the privileged guest path;
	// order.BuyerID must be empty.
	InsertGuest(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error
	FindRecent(ctx context.Context, limit int) ([]entity.Order, error)
}
