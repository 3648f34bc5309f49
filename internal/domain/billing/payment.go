package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodOther        PaymentMethod = "other"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodCash,
		PaymentMethodCheck, PaymentMethodPayPal, PaymentMethodOther:
		return true
	default:
		return false
	}
}

// Payment is an amount applied against an invoice. A payment cannot
// exist without its invoice; creation against a missing invoice fails.
type Payment struct {
	BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount_paid"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	Method          PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment. PaymentDate may be zero; the
// reconciliation service fills it with the current time before persisting.
func NewPayment(invoiceID uuid.UUID, amountPaid decimal.Decimal, method PaymentMethod) (*Payment, error) {
	if amountPaid.LessThanOrEqual(decimal.Zero) {
		return nil, NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !ValidPaymentMethod(method) {
		return nil, NewDomainError("INVALID_METHOD", "Unknown payment method")
	}

	return &Payment{
		BaseEntity: NewBaseEntity(),
		InvoiceID:  invoiceID,
		AmountPaid: amountPaid,
		Method:     method,
	}, nil
}
