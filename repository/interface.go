package repository

import (
	"context"

	"ornament-catalog/models"
)

// PurchaseEventRepositoryInterface defines the contract for purchase journal operations
type PurchaseEventRepositoryInterface interface {
	Record(ctx context.Context, event models.PurchaseEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]models.PurchaseEvent, error)
}
