package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/messaging"
	"github.com/heatdrop/marketplace-backend/internal/repository"
)

// CheckoutMode selects how inventory is handled during checkout.
type CheckoutMode string

const (
	// ModeImmediate is the authenticated flow: payment is already verified,
	// so the listing is reserved and the order created as confirmed.
	ModeImmediate CheckoutMode = "immediate"
	// ModeDeferred is the guest / manual-payment flow: no reservation is
	// taken (a never-paying guest must not lock an item) and the order is
	// created as pending_payment.
	ModeDeferred CheckoutMode = "deferred"
)

// Checker reports listing availability.
type Checker interface {
	CheckOne(ctx context.Context, listingID string) (ItemAvailability, error)
	CheckMany(ctx context.Context, listingIDs []string) (*AvailabilityReport, error)
}

// ListingReserver performs the conditional active -> sold transition.
type ListingReserver interface {
	Reserve(ctx context.Context, listingID, orderID string) bool
}

// Notifier sends buyer/seller emails. The return value is informational
// only; checkout never depends on it.
type Notifier interface {
	Notify(ctx context.Context, kind, recipientEmail, recipientName string, order entity.Order, listingTitle string) bool
}

// CheckoutRequest is one buyer's attempt to purchase a cart of listings.
type CheckoutRequest struct {
	Cart            []entity.CartLineItem
	Buyer           entity.Buyer
	Mode            CheckoutMode
	ShippingAddress string
	// PaymentID references the verified payment in immediate mode.
	PaymentID string
}

// CheckoutResult aggregates per-item outcomes. Orders holds every created
// order in cart order; FailedItems names each item that could not be
// completed. A non-empty FailedItems with a nil error is a partial success:
// the created orders stand, and the caller tells the buyer which items to
// remove and retry.
type CheckoutResult struct {
	Orders      []entity.Order `json:"orders"`
	FailedItems []string       `json:"failed_items"`
}

// CheckoutService orchestrates cart validation, inventory reservation and
// order creation. All collaborators are injected; coordination between
// concurrent checkouts happens only through the listing store's conditional
// write.
type CheckoutService struct {
	checker  Checker
	reserver ListingReserver
	orders   repository.OrderRepository
	events   messaging.Publisher
	notifier Notifier
}

func NewCheckoutService(checker Checker, reserver ListingReserver, orders repository.OrderRepository, events messaging.Publisher, notifier Notifier) *CheckoutService {
	return &CheckoutService{
		checker:  checker,
		reserver: reserver,
		orders:   orders,
		events:   events,
		notifier: notifier,
	}
}

// ValidateCart is the client cart's polling contract: it reports which lines
// are still sellable without mutating anything. Duplicate lines sharing the
// same (listing, seller, size, variant) key are rejected outright.
func (s *CheckoutService) ValidateCart(ctx context.Context, cart []entity.CartLineItem) (*AvailabilityReport, error) {
	seen := make(map[string]bool, len(cart))
	ids := make([]string, 0, len(cart))
	for _, li := range cart {
		if seen[li.Key()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCartLine, li.Key())
		}
		seen[li.Key()] = true
		ids = append(ids, li.ListingID)
	}
	return s.checker.CheckMany(ctx, ids)
}

// Checkout validates, reserves and records orders for the cart.
//
// Items are processed sequentially in cart order so that failure attribution
// stays simple and contention on the listing store is not amplified.
// Per-item failures accumulate in the result; they never abort the call.
// ErrNoAvailableItems is returned only when every item failed the pre-check,
// in which case nothing was written. ErrStoreUnavailable aborts the call
// mid-way; orders created before the abort are intact and returned alongside
// the error.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	result := &CheckoutResult{}
	if len(req.Cart) == 0 {
		return result, nil
	}
	if req.Mode != ModeImmediate && req.Mode != ModeDeferred {
		return nil, fmt.Errorf("unknown checkout mode %q", req.Mode)
	}
	if req.Buyer == nil {
		return nil, fmt.Errorf("checkout requires a buyer")
	}

	ids := make([]string, 0, len(req.Cart))
	for _, li := range req.Cart {
		ids = append(ids, li.ListingID)
	}

	report, err := s.checker.CheckMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Anything unavailable at the pre-check fails immediately and is skipped
	// for the remaining steps.
	preFailed := make(map[string]bool, len(report.Unavailable))
	for _, a := range report.Unavailable {
		preFailed[a.ListingID] = true
	}
	for _, li := range req.Cart {
		if preFailed[li.ListingID] {
			result.FailedItems = append(result.FailedItems, failedName(li, report))
			slog.Info("Cart item unavailable at pre-check",
				"listing_id", li.ListingID, "reason", preCheckReason(li.ListingID, report))
		}
	}
	if len(report.Available) == 0 {
		// Total failure: nothing was written. The result still carries the
		// unavailable names so the caller can surface them.
		return result, ErrNoAvailableItems
	}

	for _, li := range req.Cart {
		if preFailed[li.ListingID] {
			continue
		}

		order, reason, err := s.processItem(ctx, req, li)
		if err != nil {
			return result, err
		}
		if order == nil {
			result.FailedItems = append(result.FailedItems, failedName(li, report))
			slog.Info("Cart item failed", "listing_id", li.ListingID, "reason", reason)
			continue
		}

		result.Orders = append(result.Orders, *order)
		s.notify(ctx, req.Buyer, *order, li)
	}

	return result, nil
}

// processItem runs the per-item pipeline: staleness re-check, price
// re-derivation, reservation (immediate mode) and order insert. A nil order
// with a reason means the item failed non-fatally; an error is fatal to the
// whole call.
func (s *CheckoutService) processItem(ctx context.Context, req CheckoutRequest, li entity.CartLineItem) (*entity.Order, string, error) {
	av, err := s.checker.CheckOne(ctx, li.ListingID)
	if err != nil {
		return nil, "", err
	}
	if !av.Available {
		return nil, ReasonUnavailable, nil
	}

	// The order amount is re-derived from the store's canonical price; a
	// client-held price is never trusted across the order-store boundary.
	if li.UnitPriceCents != av.PriceCents {
		return nil, ReasonPriceChanged, nil
	}

	orderID := uuid.New().String()
	status := entity.OrderStatusPendingPayment

	if req.Mode == ModeImmediate {
		if !s.reserver.Reserve(ctx, li.ListingID, orderID) {
			return nil, ReasonAlreadySold, nil
		}
		status = entity.OrderStatusConfirmed
	}

	email, name, phone := req.Buyer.Contact()
	order := &entity.Order{
		ID:              orderID,
		SellerID:        av.SellerID,
		ListingID:       li.ListingID,
		AmountCents:     av.PriceCents,
		Status:          status,
		ShippingAddress: req.ShippingAddress,
		BuyerEmail:      email,
		BuyerName:       name,
		BuyerPhone:      phone,
		PaymentID:       req.PaymentID,
		CreatedAt:       time.Now(),
	}

	switch b := req.Buyer.(type) {
	case entity.AuthenticatedBuyer:
		order.BuyerID = b.UserID
		err = s.orders.Insert(ctx, order)
	case entity.GuestBuyer:
		err = s.orders.InsertGuest(ctx, order)
	default:
		return nil, "", fmt.Errorf("unsupported buyer type %T", req.Buyer)
	}
	if err != nil {
		// The reservation, if any, stays in place: retrying it with an
		// unknown order-store outcome is unsafe, and a compensating
		// transaction is deliberately not attempted.
		slog.Error("Order insert failed", "order_id", orderID, "listing_id", li.ListingID, "err", err)
		return nil, "", storeUnavailable(err)
	}

	slog.Info("Order created",
		"order_id", orderID, "listing_id", li.ListingID, "status", status, "amount_cents", order.AmountCents)

	s.publishEvents(ctx, *order)
	return order, "", nil
}

// publishEvents emits the domain events for a created order so downstream
// consumers (feeds, analytics, fulfillment) see it. Publishing happens after
// the order is durably written; a broker failure is logged and never unwinds
// the order.
func (s *CheckoutService) publishEvents(ctx context.Context, order entity.Order) {
	created := entity.OrderCreated{
		OrderID:     order.ID,
		ListingID:   order.ListingID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		AmountCents: order.AmountCents,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.events.PublishEvent(ctx, "orders.created", order.ID, created); err != nil {
		slog.Error("Failed to publish OrderCreated", "order_id", order.ID, "err", err)
	}

	if order.Status != entity.OrderStatusConfirmed {
		return
	}
	sold := entity.ListingSold{
		ListingID: order.ListingID,
		OrderID:   order.ID,
		SoldAt:    order.CreatedAt,
	}
	if err := s.events.PublishEvent(ctx, "listings.sold", order.ListingID, sold); err != nil {
		slog.Error("Failed to publish ListingSold", "listing_id", order.ListingID, "err", err)
	}
}

// notify fires the best-effort buyer and seller notifications. Failures are
// logged and swallowed; they must never roll back or fail the order.
func (s *CheckoutService) notify(ctx context.Context, buyer entity.Buyer, order entity.Order, li entity.CartLineItem) {
	email, name, _ := buyer.Contact()
	if !s.notifier.Notify(ctx, entity.NotifyBuyerOrderCreated, email, name, order, li.DisplayName()) {
		slog.Warn("Buyer notification failed", "order_id", order.ID)
	}
	if order.Status == entity.OrderStatusConfirmed {
		// Recipient address resolution for sellers happens downstream in the
		// notification pipeline; only the seller id is known here.
		if !s.notifier.Notify(ctx, entity.NotifySellerItemSold, "", order.SellerID, order, li.DisplayName()) {
			slog.Warn("Seller notification failed", "order_id", order.ID)
		}
	}
}

// failedName resolves the human-readable name for a failed item, preferring
// the store's title over client display metadata.
func failedName(li entity.CartLineItem, report *AvailabilityReport) string {
	if a, ok := report.Lookup(li.ListingID); ok && a.Title != "" {
		return a.Title
	}
	return li.DisplayName()
}

func preCheckReason(listingID string, report *AvailabilityReport) string {
	if a, ok := report.Lookup(listingID); ok {
		if a.Status == entity.ListingStatusNotFound {
			return ReasonNotFound
		}
		return string(a.Status)
	}
	return ReasonUnavailable
}
