package service

import (
	"context"
	"log/slog"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository"
)

// Reserver performs the conditional active -> sold transition for single
// listings. The store's compare-and-swap is the only concurrency control:
// of N concurrent callers for the same listing, exactly one wins.
type Reserver struct {
	listings repository.ListingRepository
}

func NewReserver(listings repository.ListingRepository) *Reserver {
	return &Reserver{listings: listings}
}

// Reserve returns true iff this caller won the reservation for listingID.
// orderID is stamped onto the listing as the claim token.
//
// A store error is never treated as a win. Before reporting a loss on an
// ambiguous failure, the row is re-read and the claim token compared: the
// conditional write may have landed before the error (e.g. a timeout on the
// response), and reporting that as a loss would strand a listing this call
// actually sold.
func (r *Reserver) Reserve(ctx context.Context, listingID, orderID string) bool {
	won, err := r.listings.MarkSold(ctx, listingID, orderID)
	if err == nil {
		return won
	}

	slog.Warn("Reservation write failed, re-checking claim",
		"listing_id", listingID, "order_id", orderID, "err", err)

	l, readErr := r.listings.FindByID(ctx, listingID)
	if readErr != nil || l == nil {
		slog.Error("Could not confirm reservation claim, treating as lost",
			"listing_id", listingID, "order_id", orderID, "err", readErr)
		return false
	}
	return l.Status == entity.ListingStatusSold && l.SoldOrderID == orderID
}
