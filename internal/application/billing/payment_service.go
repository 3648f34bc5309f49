package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicing/backend/internal/domain/billing"
)

// PaymentService is the reconciliation engine: the only component that
// mutates more than one entity type per business operation. Every write
// runs inside one transaction that covers the payment mutation and the
// recompute of the owning invoice's status, so no observer ever sees a
// payment committed without its status update.
type PaymentService struct {
	scope    TransactionScope
	payments billing.PaymentRepository
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService. The payments repository
// serves read-only queries outside any transaction; all writes go through
// the transaction scope.
func NewPaymentService(scope TransactionScope, payments billing.PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		scope:    scope,
		payments: payments,
		logger:   logger,
	}
}

// GetAllPayments returns all non-deleted payments
func (s *PaymentService) GetAllPayments(ctx context.Context) ([]billing.Payment, error) {
	return s.payments.FindAll(ctx)
}

// GetPaymentByID returns a payment, billing.ErrNotFound when absent
func (s *PaymentService) GetPaymentByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

// GetPaymentsByInvoiceID returns all non-deleted payments against an invoice
func (s *PaymentService) GetPaymentsByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	return s.payments.FindByInvoiceID(ctx, invoiceID)
}

// CreatePayment persists a payment and atomically re-derives the owning
// invoice's status. A payment cannot exist without its invoice: a missing
// invoice fails the whole operation with billing.ErrNotFound and nothing
// is written.
func (s *PaymentService) CreatePayment(ctx context.Context, payment *billing.Payment) (*billing.Payment, error) {
	s.logger.Info("creating payment",
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("amount", payment.AmountPaid.String()))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.Invoices().FindByID(ctx, payment.InvoiceID)
		if err != nil {
			if errors.Is(err, billing.ErrNotFound) {
				return fmt.Errorf("invoice %s not found: %w", payment.InvoiceID, billing.ErrNotFound)
			}
			return err
		}

		if payment.PaymentDate.IsZero() {
			payment.PaymentDate = time.Now()
		}

		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}

		// The sum runs inside the transaction, so it already includes
		// the payment written above.
		totalPaid, err := repos.Payments().SumByInvoiceID(ctx, invoice.ID)
		if err != nil {
			return err
		}

		invoice.ReconcileStatus(totalPaid)
		if _, err := repos.Invoices().Update(ctx, invoice); err != nil {
			return err
		}

		s.logger.Info("invoice status reconciled",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("status", string(invoice.Status)),
			zap.String("total_paid", totalPaid.String()))
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create payment",
			zap.String("invoice_id", payment.InvoiceID.String()),
			zap.Error(err))
		return nil, err
	}

	return payment, nil
}

// UpdatePayment overwrites a payment's fields and atomically re-derives
// the owning invoice's status, including reverting it to Sent when the
// paid total drops to zero. Returns false without error when the payment
// does not exist; that is a normal negative outcome.
func (s *PaymentService) UpdatePayment(ctx context.Context, payment *billing.Payment) (bool, error) {
	s.logger.Info("updating payment", zap.String("payment_id", payment.ID.String()))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := repos.Payments().Update(ctx, payment)
		if err != nil {
			return err
		}
		if !ok {
			return billing.ErrNotFound
		}

		return s.reconcileInvoice(ctx, repos, payment.InvoiceID)
	})
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			s.logger.Warn("payment not found for update", zap.String("payment_id", payment.ID.String()))
			return false, nil
		}
		s.logger.Error("failed to update payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		return false, err
	}

	return true, nil
}

// DeletePayment soft-deletes a payment and atomically re-derives the
// owning invoice's status over the remaining payments. Deleting an
// already-deleted or unknown payment returns false and changes nothing.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) (bool, error) {
	s.logger.Info("deleting payment", zap.String("payment_id", id.String()))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err := repos.Payments().Delete(ctx, id); err != nil {
			return err
		}

		return s.reconcileInvoice(ctx, repos, payment.InvoiceID)
	})
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			s.logger.Warn("payment not found for delete", zap.String("payment_id", id.String()))
			return false, nil
		}
		s.logger.Error("failed to delete payment", zap.String("payment_id", id.String()), zap.Error(err))
		return false, err
	}

	return true, nil
}

// reconcileInvoice recomputes the invoice's status from its current
// non-deleted payments. A missing invoice is tolerated here: the payment
// mutation stands on its own and there is nothing left to reconcile.
func (s *PaymentService) reconcileInvoice(ctx context.Context, repos TransactionalRepositories, invoiceID uuid.UUID) error {
	invoice, err := repos.Invoices().FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			return nil
		}
		return err
	}

	totalPaid, err := repos.Payments().SumByInvoiceID(ctx, invoiceID)
	if err != nil {
		return err
	}

	invoice.ReconcileStatus(totalPaid)
	if _, err := repos.Invoices().Update(ctx, invoice); err != nil {
		return err
	}

	s.logger.Info("invoice status reconciled",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", string(invoice.Status)),
		zap.String("total_paid", totalPaid.String()))
	return nil
}
