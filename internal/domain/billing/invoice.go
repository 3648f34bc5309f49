package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
	InvoiceStatusDisputed      InvoiceStatus = "disputed"
)

// ValidInvoiceStatus reports whether s is a known invoice status
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusCancelled, InvoiceStatusDisputed:
		return true
	default:
		return false
	}
}

// Invoice is the aggregate whose Status must always match the value
// derived from its non-deleted payments, except transiently inside an
// open transaction between a payment write and the status recompute.
// TotalAmount is an independently stored field trusted by the
// reconciliation rule; it is not recomputed from the line items.
type Invoice struct {
	BaseEntity
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	IssueDate     time.Time       `gorm:"not null" json:"issue_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	Currency      string          `gorm:"type:varchar(3);not null" json:"currency"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments      []Payment       `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice. The initial status is caller-supplied
// (an invoice created already dispatched starts as Sent); Draft is used
// when status is empty.
func NewInvoice(clientID uuid.UUID, invoiceNumber string, issueDate, dueDate time.Time, totalAmount decimal.Decimal, currency string, status InvoiceStatus) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(currency) != 3 {
		return nil, NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if dueDate.Before(issueDate) {
		return nil, NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}
	if totalAmount.IsNegative() {
		return nil, NewDomainError("INVALID_TOTAL_AMOUNT", "Total amount cannot be negative")
	}
	if status == "" {
		status = InvoiceStatusDraft
	}
	if !ValidInvoiceStatus(status) {
		return nil, NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}

	return &Invoice{
		BaseEntity:    NewBaseEntity(),
		ClientID:      clientID,
		InvoiceNumber: invoiceNumber,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        status,
		TotalAmount:   totalAmount,
		Currency:      currency,
	}, nil
}

// ReconcileStatus derives the status implied by totalPaid, the sum over
// all non-deleted payments against this invoice, and applies it.
// The rule only ever produces Sent, PartiallyPaid or Paid; Cancelled and
// Disputed are exogenous states set through an explicit status update and
// neither written nor overwritten here. Overpayment is accepted: totalPaid
// equal to or exceeding TotalAmount marks the invoice Paid. A fully unpaid
// invoice goes to Sent, never back to Draft.
func (i *Invoice) ReconcileStatus(totalPaid decimal.Decimal) {
	if i.Status == InvoiceStatusCancelled || i.Status == InvoiceStatusDisputed {
		return
	}
	i.Status = i.deriveStatus(totalPaid)
	i.UpdatedAt = time.Now()
}

func (i *Invoice) deriveStatus(totalPaid decimal.Decimal) InvoiceStatus {
	if totalPaid.GreaterThanOrEqual(i.TotalAmount) {
		return InvoiceStatusPaid
	}
	if totalPaid.GreaterThan(decimal.Zero) {
		return InvoiceStatusPartiallyPaid
	}
	return InvoiceStatusSent
}

// SetStatus applies an explicit status override, bypassing the
// reconciliation rule. Used for Cancelled, Disputed and manual correction.
func (i *Invoice) SetStatus(status InvoiceStatus) error {
	if !ValidInvoiceStatus(status) {
		return NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// InvoiceItem is an immutable line on an invoice. Its Total contributes
// to Invoice.TotalAmount but the invoice total is stored independently
// and never recomputed from items by the core.
type InvoiceItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string           `gorm:"type:varchar(500);not null" json:"description"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate     *decimal.Decimal `gorm:"type:decimal(5,4)" json:"tax_rate,omitempty"`
	Total       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total"`
	SortOrder   *int             `json:"sort_order,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if description == "" {
		return nil, NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity <= 0 {
		return nil, NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}

	return &InvoiceItem{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}
