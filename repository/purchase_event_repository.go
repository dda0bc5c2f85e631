package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"ornament-catalog/catalog"
	"ornament-catalog/db"
	"ornament-catalog/models"
)

// PurchaseEventRepository handles database operations for the purchase journal
type PurchaseEventRepository struct{}

// NewPurchaseEventRepository creates a new PurchaseEventRepository
func NewPurchaseEventRepository() *PurchaseEventRepository {
	return &PurchaseEventRepository{}
}

// Ensure PurchaseEventRepository implements PurchaseEventRepositoryInterface and catalog.Journal
var (
	_ PurchaseEventRepositoryInterface = (*PurchaseEventRepository)(nil)
	_ catalog.Journal                  = (*PurchaseEventRepository)(nil)
)

// Record inserts a journal event
func (r *PurchaseEventRepository) Record(ctx context.Context, event models.PurchaseEvent) error {
	log.Printf("💰 RecordPurchaseEvent: kind=%s, icon=%d, price=%d", event.Kind, event.IconID, event.Price)

	if event.Kind != models.PurchaseEventKindPurchase && event.Kind != models.PurchaseEventKindUpload {
		log.Printf("❌ RecordPurchaseEvent: Invalid kind: %s", event.Kind)
		return fmt.Errorf("kind must be '%s' or '%s'", models.PurchaseEventKindPurchase, models.PurchaseEventKindUpload)
	}

	// Parse occurredAt or use current time
	var occurredAt time.Time
	if event.OccurredAt != "" {
		var err error
		occurredAt, err = time.Parse(time.RFC3339, event.OccurredAt)
		if err != nil {
			log.Printf("❌ RecordPurchaseEvent: Invalid occurredAt format: %s", event.OccurredAt)
			return fmt.Errorf("invalid occurredAt format, use RFC3339: %w", err)
		}
	} else {
		occurredAt = time.Now().UTC()
	}

	queryInsert := `
		INSERT INTO ornament_purchase_events (event_id, session_id, icon_id, icon_name, price, kind, balance_after, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.DB.ExecContext(ctx, queryInsert,
		event.EventID,
		event.SessionID,
		event.IconID,
		event.IconName,
		event.Price,
		event.Kind,
		event.BalanceAfter,
		occurredAt,
	)
	if err != nil {
		log.Printf("❌ RecordPurchaseEvent: Error inserting event: %v", err)
		return fmt.Errorf("failed to insert purchase event: %w", err)
	}

	log.Printf("✅ RecordPurchaseEvent: Recorded event %s", event.EventID)
	return nil
}

// ListBySession returns the journal events of a session, newest first
func (r *PurchaseEventRepository) ListBySession(ctx context.Context, sessionID string) ([]models.PurchaseEvent, error) {
	log.Printf("🔍 ListPurchaseEvents: session=%s", sessionID)

	query := `
		SELECT event_id, session_id, icon_id, icon_name, price, kind, balance_after, occurred_at
		FROM ornament_purchase_events
		WHERE session_id = $1
		ORDER BY occurred_at DESC
	`
	rows, err := db.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Printf("❌ ListPurchaseEvents: Error querying events: %v", err)
		return nil, fmt.Errorf("failed to query purchase events: %w", err)
	}
	defer rows.Close()

	events := make([]models.PurchaseEvent, 0)
	for rows.Next() {
		var event models.PurchaseEvent
		var occurredAt time.Time
		if err := rows.Scan(
			&event.EventID,
			&event.SessionID,
			&event.IconID,
			&event.IconName,
			&event.Price,
			&event.Kind,
			&event.BalanceAfter,
			&occurredAt,
		); err != nil {
			log.Printf("❌ ListPurchaseEvents: Error scanning event: %v", err)
			return nil, fmt.Errorf("failed to scan purchase event: %w", err)
		}
		event.OccurredAt = occurredAt.UTC().Format(time.RFC3339)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase events: %w", err)
	}

	log.Printf("✓ ListPurchaseEvents: Found %d events", len(events))
	return events, nil
}
