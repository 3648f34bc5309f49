package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/invoicing/backend/internal/domain/billing"
)

// setupTestDB opens an in-memory SQLite database with the billing schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&billing.Client{}, &billing.Invoice{}, &billing.InvoiceItem{}, &billing.Payment{})
	require.NoError(t, err)

	return db
}

func createTestClient(t *testing.T, db *gorm.DB) *billing.Client {
	t.Helper()
	client, err := billing.NewClient("Acme Corp", "billing@acme.example")
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Create(context.Background(), client))
	return client
}

func createTestInvoice(t *testing.T, db *gorm.DB, clientID uuid.UUID, total string) *billing.Invoice {
	t.Helper()
	now := time.Now()
	invoice, err := billing.NewInvoice(clientID, "INV-"+uuid.NewString()[:8], now, now.AddDate(0, 1, 0),
		decimal.RequireFromString(total), "EUR", billing.InvoiceStatusSent)
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceRepository(db).Create(context.Background(), invoice))
	return invoice
}

func createTestPaymentEntity(t *testing.T, invoiceID uuid.UUID, amount string) *billing.Payment {
	t.Helper()
	payment, err := billing.NewPayment(invoiceID, decimal.RequireFromString(amount), billing.PaymentMethodBankTransfer)
	require.NoError(t, err)
	payment.PaymentDate = time.Now()
	return payment
}

func createTestPayment(t *testing.T, db *gorm.DB, invoiceID uuid.UUID, amount string) *billing.Payment {
	t.Helper()
	payment := createTestPaymentEntity(t, invoiceID, amount)
	require.NoError(t, NewGormPaymentRepository(db).Create(context.Background(), payment))
	return payment
}
