package entity

// ListingStatus is the lifecycle state of a listing. Only active listings
// are purchasable.
type ListingStatus string

const (
	ListingStatusDraft       ListingStatus = "draft"
	ListingStatusUnderReview ListingStatus = "under_review"
	ListingStatusActive      ListingStatus = "active"
	ListingStatusSold        ListingStatus = "sold"
	ListingStatusRejected    ListingStatus = "rejected"
	ListingStatusExpired     ListingStatus = "expired"

	// ListingStatusNotFound is reported for ids the inventory store has no
	// row for. It is never persisted.
	ListingStatusNotFound ListingStatus = "not_found"
)

// Purchasable reports whether a listing in this status can be bought.
func (s ListingStatus) Purchasable() bool {
	return s == ListingStatusActive
}

// Listing represents one sellable physical item. Every listing is unique and
// single-quantity: there is no stock count, and once a listing is sold it
// never returns to active through checkout.
type Listing struct {
	ID         string        `json:"id"`
	SellerID   string        `json:"seller_id"`
	Title      string        `json:"title"`
	Brand      string        `json:"brand"`
	Size       string        `json:"size"`
	PriceCents int64         `json:"price_cents"`
	ImageURL   string        `json:"image_url"`
	Status     ListingStatus `json:"status"`

	// SoldOrderID is the claim token of the order that won the reservation,
	// empty while the listing is unsold.
	SoldOrderID string `json:"sold_order_id,omitempty"`
}
