package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Store wraps the database handle; all persistence goes through it.
type Store struct {
	db *sql.DB
}

func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, persistence("open database", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, persistence("ping database", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the schema. Statements are idempotent so it runs on every
// startup. The CHECK constraints on items.quantity and cart_items.quantity
// backstop the invariants the checkout engine enforces.
func (s *Store) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			created TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			item_id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(128) NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			image_url TEXT,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			restocked TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			cart_item_id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			item_id INTEGER NOT NULL REFERENCES items(item_id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			UNIQUE (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			total_price NUMERIC(12,2) NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'created',
			created TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(order_id),
			item_id INTEGER NOT NULL REFERENCES items(item_id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(10,2) NOT NULL,
			UNIQUE (order_id, item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return persistence("apply migration", err)
		}
	}
	return nil
}
