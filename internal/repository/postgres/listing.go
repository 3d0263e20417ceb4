package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

// NewListingRepository creates a ListingRepository backed by Postgres.
func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = "id, seller_id, title, brand, size, price_cents, image_url, status, sold_order_id"

func scanListing(scan func(dest ...any) error) (entity.Listing, error) {
	var l entity.Listing
	err := scan(&l.ID, &l.SellerID, &l.Title, &l.Brand, &l.Size, &l.PriceCents, &l.ImageURL, &l.Status, &l.SoldOrderID)
	return l, err
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []entity.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1", id,
	)
	l, err := scanListing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listing %s: %w", id, err)
	}
	return &l, nil
}

// MarkSold is the only writer of listings.status. The WHERE clause is the
// compare-and-swap: of N concurrent callers exactly one matches the active
// row, everyone else sees zero rows affected.
func (r *listingRepository) MarkSold(ctx context.Context, listingID, orderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE listings SET status = $1, sold_order_id = $2 WHERE id = $3 AND status = $4",
		entity.ListingStatusSold, orderID, listingID, entity.ListingStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark listing %s sold: %w", listingID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *listingRepository) FindAll(ctx context.Context) ([]entity.Listing, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+listingColumns+" FROM listings ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []entity.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) Seed(ctx context.Context, listings []entity.Listing) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, l := range listings {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO listings (id, seller_id, title, brand, size, price_cents, image_url, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			l.ID, l.SellerID, l.Title, l.Brand, l.Size, l.PriceCents, l.ImageURL, l.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to seed listing %s: %w", l.ID, err)
		}
	}
	return nil
}
