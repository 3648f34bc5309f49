package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicing/backend/internal/domain/billing"
)

// InvoiceService handles invoice CRUD and explicit status overrides.
// These are single-repository operations; they still run through the
// transaction scope for uniform failure handling, not because they need
// cross-entity atomicity.
type InvoiceService struct {
	scope    TransactionScope
	invoices billing.InvoiceRepository
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, invoices billing.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		scope:    scope,
		invoices: invoices,
		logger:   logger,
	}
}

// GetAllInvoices returns all non-deleted invoices
func (s *InvoiceService) GetAllInvoices(ctx context.Context) ([]billing.Invoice, error) {
	return s.invoices.FindAll(ctx)
}

// GetInvoiceByID returns an invoice with its items and payments,
// billing.ErrNotFound when absent
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

// GetInvoicesByClientID returns all non-deleted invoices owned by a client
func (s *InvoiceService) GetInvoicesByClientID(ctx context.Context, clientID uuid.UUID) ([]billing.Invoice, error) {
	return s.invoices.FindByClientID(ctx, clientID)
}

// CreateInvoice persists a new invoice with its line items
func (s *InvoiceService) CreateInvoice(ctx context.Context, invoice *billing.Invoice) (*billing.Invoice, error) {
	s.logger.Info("creating invoice",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("client_id", invoice.ClientID.String()))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		s.logger.Error("failed to create invoice",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err))
		return nil, err
	}
	return invoice, nil
}

// UpdateInvoice overwrites an existing invoice's mutable fields.
// Returns false without error when the invoice does not exist.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, invoice *billing.Invoice) (bool, error) {
	s.logger.Info("updating invoice", zap.String("invoice_id", invoice.ID.String()))

	var updated bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := repos.Invoices().Update(ctx, invoice)
		updated = ok
		return err
	})
	if err != nil {
		s.logger.Error("failed to update invoice", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
		return false, err
	}
	return updated, nil
}

// DeleteInvoice soft-deletes an invoice. Returns false when absent.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) (bool, error) {
	s.logger.Info("deleting invoice", zap.String("invoice_id", id.String()))

	var deleted bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := repos.Invoices().Delete(ctx, id)
		deleted = ok
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete invoice", zap.String("invoice_id", id.String()), zap.Error(err))
		return false, err
	}
	return deleted, nil
}

// UpdateInvoiceStatus applies an explicit status override, bypassing the
// payment reconciliation rule. This is the only way an invoice reaches
// Cancelled or Disputed, and the escape hatch for manual correction.
// Returns false without error when the invoice does not exist.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status billing.InvoiceStatus) (bool, error) {
	s.logger.Info("updating invoice status",
		zap.String("invoice_id", id.String()),
		zap.String("status", string(status)))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.Invoices().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := invoice.SetStatus(status); err != nil {
			return err
		}
		if _, err := repos.Invoices().Update(ctx, invoice); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			s.logger.Warn("invoice not found for status update", zap.String("invoice_id", id.String()))
			return false, nil
		}
		s.logger.Error("failed to update invoice status", zap.String("invoice_id", id.String()), zap.Error(err))
		return false, err
	}
	return true, nil
}
