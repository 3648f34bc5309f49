package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
)

// PaymentHandler handles payment-related API endpoints. Every payment
// mutation triggers the invoice status reconciliation in the service layer.
type PaymentHandler struct {
	BaseHandler
	paymentService *appbilling.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appbilling.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	InvoiceID       string     `json:"invoice_id" binding:"required,uuid"`
	AmountPaid      float64    `json:"amount_paid" binding:"required,gt=0"`
	PaymentDate     *time.Time `json:"payment_date"`
	Method          string     `json:"method" binding:"required,oneof=bank_transfer credit_card cash check paypal other"`
	ReferenceNumber string     `json:"reference_number" binding:"max=100"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// UpdatePaymentRequest represents a request to correct a recorded payment
type UpdatePaymentRequest struct {
	AmountPaid      float64    `json:"amount_paid" binding:"required,gt=0"`
	PaymentDate     *time.Time `json:"payment_date"`
	Method          string     `json:"method" binding:"required,oneof=bank_transfer credit_card cash check paypal other"`
	ReferenceNumber string     `json:"reference_number" binding:"max=100"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              string    `json:"id"`
	InvoiceID       string    `json:"invoice_id"`
	AmountPaid      string    `json:"amount_paid"`
	PaymentDate     time.Time `json:"payment_date"`
	Method          string    `json:"method"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPaymentResponse(payment *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              payment.ID.String(),
		InvoiceID:       payment.InvoiceID.String(),
		AmountPaid:      payment.AmountPaid.String(),
		PaymentDate:     payment.PaymentDate,
		Method:          string(payment.Method),
		ReferenceNumber: payment.ReferenceNumber,
		Notes:           payment.Notes,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payment, err := billing.NewPayment(invoiceID, decimal.NewFromFloat(req.AmountPaid), billing.PaymentMethod(req.Method))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}
	payment.ReferenceNumber = req.ReferenceNumber
	payment.Notes = req.Notes

	created, err := h.paymentService.CreatePayment(c.Request.Context(), payment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(created))
}

// List handles GET /payments with an optional invoice_id filter
func (h *PaymentHandler) List(c *gin.Context) {
	var (
		payments []billing.Payment
		err      error
	)

	if invoiceIDStr := c.Query("invoice_id"); invoiceIDStr != "" {
		invoiceID, parseErr := uuid.Parse(invoiceIDStr)
		if parseErr != nil {
			h.BadRequest(c, "Invalid invoice ID")
			return
		}
		payments, err = h.paymentService.GetPaymentsByInvoiceID(c.Request.Context(), invoiceID)
	} else {
		payments, err = h.paymentService.GetAllPayments(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	h.Success(c, responses)
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// Update handles PUT /payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	payment.AmountPaid = decimal.NewFromFloat(req.AmountPaid)
	payment.Method = billing.PaymentMethod(req.Method)
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}
	payment.ReferenceNumber = req.ReferenceNumber
	payment.Notes = req.Notes

	updated, err := h.paymentService.UpdatePayment(c.Request.Context(), payment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !updated {
		h.NotFound(c, "Payment not found")
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	deleted, err := h.paymentService.DeletePayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !deleted {
		h.NotFound(c, "Payment not found")
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers payment routes on the given router group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("", h.List)
		payments.GET("/:id", h.GetByID)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
	}
}
