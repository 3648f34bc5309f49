package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/invoicing/backend/internal/domain/billing"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// active scopes every query to non-deleted rows
func (r *GormPaymentRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_deleted = ?", false)
}

// FindAll returns all non-deleted payments
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.active(ctx).Order("payment_date DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByID finds a non-deleted payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.active(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoiceID returns all non-deleted payments against an invoice
func (r *GormPaymentRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.active(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumByInvoiceID sums AmountPaid over all non-deleted payments against an invoice
func (r *GormPaymentRepository) SumByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount_paid), 0) as total").
		Where("invoice_id = ? AND is_deleted = ?", invoiceID, false).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Create persists a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	now := time.Now()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update overwrites the mutable fields of an existing non-deleted payment.
// Returns false without writing when the row is absent.
func (r *GormPaymentRepository) Update(ctx context.Context, payment *billing.Payment) (bool, error) {
	var existing billing.Payment
	if err := r.active(ctx).Where("id = ?", payment.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	existing.InvoiceID = payment.InvoiceID
	existing.AmountPaid = payment.AmountPaid
	existing.PaymentDate = payment.PaymentDate
	existing.Method = payment.Method
	existing.ReferenceNumber = payment.ReferenceNumber
	existing.Notes = payment.Notes
	existing.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Delete soft-deletes a payment. Returns false when the row is absent or
// already deleted.
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var existing billing.Payment
	if err := r.active(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	existing.MarkDeleted()
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	return true, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
