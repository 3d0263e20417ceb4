package service

import (
	"context"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository"
)

// ItemAvailability describes one listing's current sellability. It is a
// point-in-time fact, not a lock: the reservation step re-checks atomically.
type ItemAvailability struct {
	ListingID  string               `json:"listing_id"`
	Available  bool                 `json:"available"`
	Status     entity.ListingStatus `json:"status"`
	Title      string               `json:"title,omitempty"`
	SellerID   string               `json:"seller_id,omitempty"`
	PriceCents int64                `json:"price_cents,omitempty"`
}

// AvailabilityReport partitions a batch of listing ids, in first-seen input
// order. Unavailable entries carry the last-known status for diagnostics.
type AvailabilityReport struct {
	Available   []ItemAvailability `json:"available"`
	Unavailable []ItemAvailability `json:"unavailable"`
}

// Lookup returns the availability entry for a listing id.
func (r *AvailabilityReport) Lookup(listingID string) (ItemAvailability, bool) {
	for _, a := range r.Available {
		if a.ListingID == listingID {
			return a, true
		}
	}
	for _, a := range r.Unavailable {
		if a.ListingID == listingID {
			return a, true
		}
	}
	return ItemAvailability{}, false
}

// AvailabilityChecker reads listing availability from the inventory store.
// It never mutates anything.
type AvailabilityChecker struct {
	listings repository.ListingRepository
}

func NewAvailabilityChecker(listings repository.ListingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{listings: listings}
}

// CheckOne reports the current availability of a single listing. A listing
// absent from the store is reported with status not_found.
func (c *AvailabilityChecker) CheckOne(ctx context.Context, listingID string) (ItemAvailability, error) {
	l, err := c.listings.FindByID(ctx, listingID)
	if err != nil {
		return ItemAvailability{}, storeUnavailable(err)
	}
	if l == nil {
		return ItemAvailability{ListingID: listingID, Status: entity.ListingStatusNotFound}, nil
	}
	return toAvailability(*l), nil
}

// CheckMany reports availability for a batch of listing ids. Duplicate ids
// are de-duplicated before querying. On a store read error the whole batch
// fails; there is no partial report.
func (c *AvailabilityChecker) CheckMany(ctx context.Context, listingIDs []string) (*AvailabilityReport, error) {
	unique := make([]string, 0, len(listingIDs))
	seen := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	listings, err := c.listings.FindByIDs(ctx, unique)
	if err != nil {
		return nil, storeUnavailable(err)
	}

	byID := make(map[string]entity.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	report := &AvailabilityReport{}
	for _, id := range unique {
		l, found := byID[id]
		if !found {
			report.Unavailable = append(report.Unavailable, ItemAvailability{
				ListingID: id,
				Status:    entity.ListingStatusNotFound,
			})
			continue
		}
		a := toAvailability(l)
		if a.Available {
			report.Available = append(report.Available, a)
		} else {
			report.Unavailable = append(report.Unavailable, a)
		}
	}
	return report, nil
}

func toAvailability(l entity.Listing) ItemAvailability {
	return ItemAvailability{
		ListingID:  l.ID,
		Available:  l.Status.Purchasable(),
		Status:     l.Status,
		Title:      l.Title,
		SellerID:   l.SellerID,
		PriceCents: l.PriceCents,
	}
}
