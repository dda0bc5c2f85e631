package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ornament-catalog/db"
	"ornament-catalog/models"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() {
		db.DB = prev
		conn.Close()
	})
	return mock
}

func TestPurchaseEventRepository_Record(t *testing.T) {
	mock := setupMockDB(t)
	occurred := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ornament_purchase_events")).
		WithArgs("evt-1", "sess-1", int64(2), "Bell", int64(5), "purchase", int64(5), occurred).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPurchaseEventRepository().Record(context.Background(), models.PurchaseEvent{
		EventID:      "evt-1",
		SessionID:    "sess-1",
		IconID:       2,
		IconName:     "Bell",
		Price:        5,
		Kind:         models.PurchaseEventKindPurchase,
		BalanceAfter: 5,
		OccurredAt:   occurred.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEventRepository_RecordRejectsUnknownKind(t *testing.T) {
	mock := setupMockDB(t)

	err := NewPurchaseEventRepository().Record(context.Background(), models.PurchaseEvent{EventID: "evt-1", Kind: "refund"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEventRepository_RecordInsertError(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectExec("INSERT INTO ornament_purchase_events").WillReturnError(errors.New("connection reset"))

	err := NewPurchaseEventRepository().Record(context.Background(), models.PurchaseEvent{
		EventID: "evt-1",
		Kind:    models.PurchaseEventKindUpload,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert purchase event")
}

func TestPurchaseEventRepository_ListBySession(t *testing.T) {
	mock := setupMockDB(t)
	newer := time.Date(2026, 12, 1, 11, 0, 0, 0, time.UTC)
	older := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"event_id", "session_id", "icon_id", "icon_name", "price", "kind", "balance_after", "occurred_at"}).
		AddRow("evt-2", "sess-1", int64(7), "Snowflake", int64(0), "upload", int64(5), newer).
		AddRow("evt-1", "sess-1", int64(2), "Bell", int64(5), "purchase", int64(5), older)
	mock.ExpectQuery(regexp.QuoteMeta("FROM ornament_purchase_events")).
		WithArgs("sess-1").
		WillReturnRows(rows)

	events, err := NewPurchaseEventRepository().ListBySession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-2", events[0].EventID)
	assert.Equal(t, "2026-12-01T11:00:00Z", events[0].OccurredAt)
	assert.Equal(t, models.PurchaseEventKindPurchase, events[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEventRepository_ListBySessionEmpty(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("FROM ornament_purchase_events").
		WithArgs("sess-2").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "session_id", "icon_id", "icon_name", "price", "kind", "balance_after", "occurred_at"}))

	events, err := NewPurchaseEventRepository().ListBySession(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
