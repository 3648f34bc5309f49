package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicing/backend/internal/domain/billing"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM.
// Reads preload the invoice's non-deleted items and payments.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// active scopes every query to non-deleted rows and preloads associations
func (r *GormInvoiceRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", "is_deleted = ?", false).
		Where("invoices.is_deleted = ?", false)
}

// FindAll returns all non-deleted invoices
func (r *GormInvoiceRepository) FindAll(ctx context.Context) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.active(ctx).Order("issue_date DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByID finds a non-deleted invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.active(ctx).Where("invoices.id = ?", id).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByClientID returns all non-deleted invoices owned by a client
func (r *GormInvoiceRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.active(ctx).
		Where("client_id = ?", clientID).
		Order("issue_date DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Create persists a new invoice together with its line items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	now := time.Now()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
		invoice.Items[i].CreatedAt = now
	}
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Update overwrites the mutable fields of an existing non-deleted invoice.
// Line items are immutable and not touched here. Returns false without
// writing when the row is absent.
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) (bool, error) {
	var existing billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("id = ?", invoice.ID).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	updates := map[string]any{
		"client_id":      invoice.ClientID,
		"invoice_number": invoice.InvoiceNumber,
		"issue_date":     invoice.IssueDate,
		"due_date":       invoice.DueDate,
		"status":         invoice.Status,
		"total_amount":   invoice.TotalAmount,
		"currency":       invoice.Currency,
		"notes":          invoice.Notes,
		"updated_at":     time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Delete soft-deletes an invoice. Returns false when the row is absent or
// already deleted.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var existing billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("id = ?", id).
		First(&existing).Error; err != nil {
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

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
