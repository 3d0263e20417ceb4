package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Insert(ctx context.Context, order *entity.Order) error {
	if order.BuyerID == "" {
		return fmt.Errorf("authenticated order %s has no buyer id", order.ID)
	}

	var paymentID sql.NullString
	if order.PaymentID != "" {
		paymentID = sql.NullString{String: order.PaymentID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, buyer_id, seller_id, listing_id, amount_cents, status,
			shipping_address, buyer_email, buyer_name, buyer_phone, payment_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.BuyerID, order.SellerID, order.ListingID, order.AmountCents, order.Status,
		order.ShippingAddress, order.BuyerEmail, order.BuyerName, order.BuyerPhone, paymentID, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// InsertGuest goes through the create_guest_order function rather than a
// direct INSERT: guests never get table-level write access.
func (r *orderRepository) InsertGuest(ctx context.Context, order *entity.Order) error {
	if order.BuyerID != "" {
		return fmt.Errorf("guest order %s must not carry a buyer id", order.ID)
	}

	var paymentID sql.NullString
	if order.PaymentID != "" {
		paymentID = sql.NullString{String: order.PaymentID, Valid: true}
	}

	var createdID string
	err := r.db.QueryRowContext(ctx,
		"SELECT create_guest_order($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		order.ID, order.SellerID, order.ListingID, order.AmountCents, order.Status,
		order.ShippingAddress, order.BuyerEmail, order.BuyerName, order.BuyerPhone, paymentID,
	).Scan(&createdID)
	if err != nil {
		return fmt.Errorf("failed to insert guest order: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2",
		status, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order %s status: %w", orderID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(buyer_id, ''), seller_id, listing_id, amount_cents, status,
		       shipping_address, buyer_email, buyer_name, buyer_phone, COALESCE(payment_id, ''), created_at
		FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.SellerID, &o.ListingID, &o.AmountCents, &o.Status,
			&o.ShippingAddress, &o.BuyerEmail, &o.BuyerName, &o.BuyerPhone, &o.PaymentID, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
