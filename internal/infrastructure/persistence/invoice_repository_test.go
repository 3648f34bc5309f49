package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicing/backend/internal/domain/billing"
)

func TestGormInvoiceRepository_CreateWithItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	now := time.Now()
	invoice, err := billing.NewInvoice(client.ID, "INV-2026-001", now, now.AddDate(0, 1, 0),
		decimal.RequireFromString("451.50"), "EUR", "")
	require.NoError(t, err)

	item, err := billing.NewInvoiceItem(invoice.ID, "Consulting", 3, decimal.RequireFromString("150.50"))
	require.NoError(t, err)
	invoice.Items = []billing.InvoiceItem{*item}

	require.NoError(t, repo.Create(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-001", found.InvoiceNumber)
	assert.Equal(t, billing.InvoiceStatusDraft, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Consulting", found.Items[0].Description)
	assert.True(t, found.Items[0].Total.Equal(decimal.RequireFromString("451.50")))
}

func TestGormInvoiceRepository_FindByID_PreloadsPayments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	invoice := createTestInvoice(t, db, client.ID, "200.00")
	createTestPayment(t, db, invoice.ID, "50.00")
	deleted := createTestPayment(t, db, invoice.ID, "25.00")

	ok, err := NewGormPaymentRepository(db).Delete(ctx, deleted.ID)
	require.NoError(t, err)
	require.True(t, ok)

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	// Soft-deleted payments stay out of the loaded aggregate
	require.Len(t, found.Payments, 1)
	assert.True(t, found.Payments[0].AmountPaid.Equal(decimal.RequireFromString("50.00")))
}

func TestGormInvoiceRepository_FindByClientID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)
	createTestInvoice(t, db, clientA.ID, "100.00")
	createTestInvoice(t, db, clientA.ID, "200.00")
	createTestInvoice(t, db, clientB.ID, "300.00")

	invoices, err := repo.FindByClientID(ctx, clientA.ID)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	invoices, err = repo.FindByClientID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestGormInvoiceRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	invoice := createTestInvoice(t, db, client.ID, "200.00")

	invoice.Status = billing.InvoiceStatusPaid
	invoice.Notes = "settled in full"
	ok, err := repo.Update(ctx, invoice)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, found.Status)
	assert.Equal(t, "settled in full", found.Notes)
}

func TestGormInvoiceRepository_Update_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)

	now := time.Now()
	phantom, err := billing.NewInvoice(uuid.New(), "INV-GHOST", now, now, decimal.NewFromInt(1), "EUR", "")
	require.NoError(t, err)

	ok, err := repo.Update(context.Background(), phantom)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	invoice := createTestInvoice(t, db, client.ID, "100.00")

	ok, err := repo.Delete(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.FindByID(ctx, invoice.ID)
	assert.ErrorIs(t, err, billing.ErrNotFound)

	ok, err = repo.Delete(ctx, invoice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
