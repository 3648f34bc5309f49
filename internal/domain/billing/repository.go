package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repositories translate entity-level CRUD into store operations. Every
// read is scoped to non-deleted rows; the active-only filter is encoded
// once in each implementation's query construction, not per call site.
//
// Update and Delete return false without error when the target row is
// absent or already deleted; that is a normal negative outcome, not a
// failure. Store errors are never caught here, they bubble to the
// service that owns the enclosing transaction.

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindAll returns all non-deleted clients
	FindAll(ctx context.Context) ([]Client, error)

	// FindByID finds a non-deleted client by ID, ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// Create persists a new client, assigning ID and timestamps when unset
	Create(ctx context.Context, client *Client) error

	// Update overwrites the mutable fields of an existing client
	Update(ctx context.Context, client *Client) (bool, error)

	// Delete soft-deletes a client
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// InvoiceRepository defines the interface for invoice persistence.
// Reads load the invoice together with its items and payments.
type InvoiceRepository interface {
	// FindAll returns all non-deleted invoices
	FindAll(ctx context.Context) ([]Invoice, error)

	// FindByID finds a non-deleted invoice by ID, ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByClientID returns all non-deleted invoices owned by a client
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]Invoice, error)

	// Create persists a new invoice and its line items
	Create(ctx context.Context, invoice *Invoice) error

	// Update overwrites the mutable fields of an existing invoice
	Update(ctx context.Context, invoice *Invoice) (bool, error)

	// Delete soft-deletes an invoice
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindAll returns all non-deleted payments
	FindAll(ctx context.Context) ([]Payment, error)

	// FindByID finds a non-deleted payment by ID, ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByInvoiceID returns all non-deleted payments against an invoice
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)

	// SumByInvoiceID sums AmountPaid over all non-deleted payments
	// against an invoice, zero when there are none
	SumByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// Create persists a new payment
	Create(ctx context.Context, payment *Payment) error

	// Update overwrites the mutable fields of an existing payment
	Update(ctx context.Context, payment *Payment) (bool, error)

	// Delete soft-deletes a payment
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
