package entity

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPendingPayment marks orders whose payment is confirmed
	// out-of-band; the listing is not yet reserved.
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	// OrderStatusConfirmed marks orders whose payment is verified and whose
	// listing was reserved at creation time.
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Buyer identifies who is checking out. It is a closed sum: either an
// authenticated user or a guest with contact details only.
type Buyer interface {
	isBuyer()
	// Contact returns the buyer's email, name and phone for the order record
	// and notifications.
	Contact() (email, name, phone string)
}

// AuthenticatedBuyer is a logged-in user.
type AuthenticatedBuyer struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

func (AuthenticatedBuyer) isBuyer() {}

func (b AuthenticatedBuyer) Contact() (string, string, string) {
	return b.Email, b.Name, b.Phone
}

// GuestBuyer checks out without an account. Guest orders carry the contact
// details directly and never reference a user id.
type GuestBuyer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (GuestBuyer) isBuyer() {}

func (b GuestBuyer) Contact() (string, string, string) {
	return b.Email, b.Name, b.Phone
}

// Order is the durable record of a purchase of one listing by one buyer.
type Order struct {
	ID              string      `json:"id"`
	BuyerID         string      `json:"buyer_id,omitempty"` // empty for guest orders
	SellerID        string      `json:"seller_id"`
	ListingID       string      `json:"listing_id"`
	AmountCents     int64       `json:"amount_cents"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	BuyerEmail      string      `json:"buyer_email"`
	BuyerName       string      `json:"buyer_name"`
	BuyerPhone      string      `json:"buyer_phone"`
	PaymentID       string      `json:"payment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Guest reports whether the order was placed without a user account.
func (o Order) Guest() bool {
	return o.BuyerID == ""
}
