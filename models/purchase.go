package models

// Purchase event kinds
const (
	PurchaseEventKindPurchase = "purchase"
	PurchaseEventKindUpload   = "upload"
)

// PurchaseRequest represents the request body for POST /api/icons/purchase
// Example: {"iconId": 2}
type PurchaseRequest struct {
	IconID int64 `json:"iconId"`
}

// PurchaseEvent represents a journal entry for a resolved purchase or a created icon
type PurchaseEvent struct {
	EventID      string `json:"eventId"`
	SessionID    string `json:"sessionId"`
	IconID       int64  `json:"iconId"`
	IconName     string `json:"iconName"`
	Price        int64  `json:"price"`
	Kind         string `json:"kind"` // 'purchase' or 'upload'
	BalanceAfter int64  `json:"balanceAfter"`
	OccurredAt   string `json:"occurredAt"`
}

// PurchaseEventListResponse represents the response for listing journal events
type PurchaseEventListResponse struct {
	Events []PurchaseEvent `json:"events"`
}
