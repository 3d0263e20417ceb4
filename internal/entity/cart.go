package entity

import "fmt"

// CartLineItem is a client-held request to buy one listing. It is never
// persisted server-side; it exists only as checkout input. Quantity is
// always one in this domain, the field is kept for wire compatibility.
type CartLineItem struct {
	ListingID      string `json:"listing_id"`
	SellerID       string `json:"seller_id"`
	VariantID      string `json:"variant_id"`
	Size           string `json:"size"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`

	// Display metadata carried through for order records and notifications.
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	ImageURL string `json:"image_url"`
}

// Key identifies a cart line for the uniqueness rule: no two lines may share
// the same (listing, seller, size, variant).
func (li CartLineItem) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", li.ListingID, li.SellerID, li.Size, li.VariantID)
}

// DisplayName is the human-readable name used in failure messages.
func (li CartLineItem) DisplayName() string {
	if li.Name != "" {
		return li.Name
	}
	return li.ListingID
}
