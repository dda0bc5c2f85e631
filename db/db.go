package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection used by the purchase journal
var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS ornament_purchase_events (
	event_id      UUID PRIMARY KEY,
	session_id    UUID NOT NULL,
	icon_id       BIGINT NOT NULL,
	icon_name     TEXT NOT NULL,
	price         BIGINT NOT NULL,
	kind          TEXT NOT NULL,
	balance_after BIGINT NOT NULL,
	occurred_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ornament_purchase_events_session
	ON ornament_purchase_events (session_id, occurred_at DESC);
`

// InitDB opens the database connection for dsn and ensures the journal table exists
func InitDB(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	DB = conn
	log.Printf("✓ Database connection established successfully")
	return nil
}

// Migrate creates the journal table if it does not exist
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
