package billing

import (
	"context"

	"github.com/invoicing/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to the billing repositories.
// Repository operations performed inside Execute share one database
// transaction and take effect atomically: they are all committed together
// or all rolled back. Each Execute call owns its unit of work exclusively;
// scopes are safe to share across concurrent operations because every call
// acquires its own transaction.
type TransactionScope interface {
	// Execute runs fn within a database transaction. The transaction is
	// rolled back when fn returns an error, panics, or the context is
	// cancelled, and committed otherwise. Operating outside a transaction
	// is a conscious choice made by not using the scope.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within one transaction. All repositories returned attach to the same
// ambient transaction handle.
type TransactionalRepositories interface {
	// Clients returns the client repository scoped to the current transaction
	Clients() billing.ClientRepository
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() billing.InvoiceRepository
	// Payments returns the payment repository scoped to the current transaction
	Payments() billing.PaymentRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where atomicity is not under scrutiny.
type NoOpTransactionScope struct {
	clients  billing.ClientRepository
	invoices billing.InvoiceRepository
	payments billing.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	clients billing.ClientRepository,
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		clients:  clients,
		invoices: invoices,
		payments: payments,
	}
}

// Execute runs the function without transactional guarantees.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Clients returns the client repository.
func (s *NoOpTransactionScope) Clients() billing.ClientRepository {
	return s.clients
}

// Invoices returns the invoice repository.
func (s *NoOpTransactionScope) Invoices() billing.InvoiceRepository {
	return s.invoices
}

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() billing.PaymentRepository {
	return s.payments
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
