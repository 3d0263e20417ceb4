package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database connected and migrated")
	return db, nil
}

func migrateDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			seller_id TEXT NOT NULL,
			title TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'under_review',
			sold_order_id TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			buyer_id TEXT,
			seller_id TEXT NOT NULL,
			listing_id TEXT NOT NULL,
			amount_cents BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending_payment',
			shipping_address TEXT NOT NULL DEFAULT '',
			buyer_email TEXT NOT NULL DEFAULT '',
			buyer_name TEXT NOT NULL DEFAULT '',
			buyer_phone TEXT NOT NULL DEFAULT '',
			payment_id TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	// Guest checkouts go through this function instead of a direct INSERT.
	// SECURITY DEFINER keeps the orders table closed to the unauthenticated
	// role while still allowing this one narrow write path.
	_, err = db.Exec(`
		CREATE OR REPLACE FUNCTION create_guest_order(
			p_id TEXT,
			p_seller_id TEXT,
			p_listing_id TEXT,
			p_amount_cents BIGINT,
			p_status TEXT,
			p_shipping_address TEXT,
			p_buyer_email TEXT,
			p_buyer_name TEXT,
			p_buyer_phone TEXT,
			p_payment_id TEXT
		) RETURNS TEXT AS $$
		BEGIN
			INSERT INTO orders (
				id, buyer_id, seller_id, listing_id, amount_cents, status,
				shipping_address, buyer_email, buyer_name, buyer_phone, payment_id
			) VALUES (
				p_id, NULL, p_seller_id, p_listing_id, p_amount_cents, p_status,
				p_shipping_address, p_buyer_email, p_buyer_name, p_buyer_phone, p_payment_id
			);
			RETURN p_id;
		END;
		$$ LANGUAGE plpgsql SECURITY DEFINER;
	`)
	return err
}
