package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
)

// testEnv wires the services against an in-memory SQLite database the
// same way cmd/server wires them against Postgres.
type testEnv struct {
	db       *gorm.DB
	scope    appbilling.TransactionScope
	clients  *appbilling.ClientService
	invoices *appbilling.InvoiceService
	payments *appbilling.PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&billing.Client{}, &billing.Invoice{}, &billing.InvoiceItem{}, &billing.Payment{})
	require.NoError(t, err)

	scope := persistence.NewGormTransactionScope(db)
	log := zap.NewNop()

	return &testEnv{
		db:       db,
		scope:    scope,
		clients:  appbilling.NewClientService(scope, persistence.NewGormClientRepository(db), log),
		invoices: appbilling.NewInvoiceService(scope, persistence.NewGormInvoiceRepository(db), log),
		payments: appbilling.NewPaymentService(scope, persistence.NewGormPaymentRepository(db), log),
	}
}

func (e *testEnv) createClient(t *testing.T) *billing.Client {
	t.Helper()
	client, err := billing.NewClient("Globex GmbH", "accounts@globex.example")
	require.NoError(t, err)
	created, err := e.clients.CreateClient(context.Background(), client)
	require.NoError(t, err)
	return created
}

func (e *testEnv) createInvoice(t *testing.T, clientID uuid.UUID, total string) *billing.Invoice {
	t.Helper()
	now := time.Now()
	invoice, err := billing.NewInvoice(clientID, "INV-"+uuid.NewString()[:8], now, now.AddDate(0, 1, 0),
		decimal.RequireFromString(total), "EUR", billing.InvoiceStatusSent)
	require.NoError(t, err)
	created, err := e.invoices.CreateInvoice(context.Background(), invoice)
	require.NoError(t, err)
	return created
}

func (e *testEnv) newPayment(t *testing.T, invoiceID uuid.UUID, amount string) *billing.Payment {
	t.Helper()
	payment, err := billing.NewPayment(invoiceID, decimal.RequireFromString(amount), billing.PaymentMethodBankTransfer)
	require.NoError(t, err)
	return payment
}

func (e *testEnv) invoiceStatus(t *testing.T, id uuid.UUID) billing.InvoiceStatus {
	t.Helper()
	invoice, err := e.invoices.GetInvoiceByID(context.Background(), id)
	require.NoError(t, err)
	return invoice.Status
}
