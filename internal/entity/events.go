package entity

import "time"

// Event represents a domain event.
type Event interface {
	EventType() string
}

// OrderCreated is emitted after an order row is durably written.
type OrderCreated struct {
	OrderID     string      `json:"order_id"`
	ListingID   string      `json:"listing_id"`
	BuyerID     string      `json:"buyer_id,omitempty"`
	SellerID    string      `json:"seller_id"`
	AmountCents int64       `json:"amount_cents"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (e OrderCreated) EventType() string { return "OrderCreated" }

// ListingSold is emitted when a reservation wins and the listing leaves the
// active pool.
type ListingSold struct {
	ListingID string    `json:"listing_id"`
	OrderID   string    `json:"order_id"`
	SoldAt    time.Time `json:"sold_at"`
}

func (e ListingSold) EventType() string { return "ListingSold" }

// Notification kinds understood by the notification sink.
const (
	NotifyBuyerOrderCreated = "buyer.order_created"
	NotifySellerItemSold    = "seller.item_sold"
)

// NotificationRequested asks the notification pipeline to send one email.
// Delivery is best-effort; nothing in checkout depends on it.
type NotificationRequested struct {
	Kind           string    `json:"kind"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	OrderID        string    `json:"order_id"`
	ListingTitle   string    `json:"listing_title"`
	AmountCents    int64     `json:"amount_cents"`
	RequestedAt    time.Time `json:"requested_at"`
}

func (e NotificationRequested) EventType() string { return "NotificationRequested" }
