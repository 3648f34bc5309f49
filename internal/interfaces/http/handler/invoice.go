package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceItemRequest represents a line item in an invoice request
type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required,min=1,max=500"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gte=0"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	ClientID      string               `json:"client_id" binding:"required,uuid"`
	InvoiceNumber string               `json:"invoice_number" binding:"required,min=1,max=50"`
	IssueDate     time.Time            `json:"issue_date" binding:"required"`
	DueDate       time.Time            `json:"due_date" binding:"required"`
	TotalAmount   float64              `json:"total_amount" binding:"gte=0"`
	Currency      string               `json:"currency" binding:"required,currency_code"`
	Status        string               `json:"status" binding:"omitempty,oneof=draft sent overdue partially_paid paid cancelled disputed"`
	Notes         string               `json:"notes" binding:"max=1000"`
	Items         []InvoiceItemRequest `json:"items" binding:"dive"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	InvoiceNumber string    `json:"invoice_number" binding:"required,min=1,max=50"`
	IssueDate     time.Time `json:"issue_date" binding:"required"`
	DueDate       time.Time `json:"due_date" binding:"required"`
	TotalAmount   float64   `json:"total_amount" binding:"gte=0"`
	Currency      string    `json:"currency" binding:"required,currency_code"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

// UpdateInvoiceStatusRequest represents an explicit status override request
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent overdue partially_paid paid cancelled disputed"`
}

// InvoiceItemResponse represents an invoice line item in API responses
type InvoiceItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
}

// PaymentSummaryResponse represents a payment attached to an invoice response
type PaymentSummaryResponse struct {
	ID          string    `json:"id"`
	AmountPaid  string    `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string                   `json:"id"`
	ClientID      string                   `json:"client_id"`
	InvoiceNumber string                   `json:"invoice_number"`
	IssueDate     time.Time                `json:"issue_date"`
	DueDate       time.Time                `json:"due_date"`
	Status        string                   `json:"status"`
	TotalAmount   string                   `json:"total_amount"`
	Currency      string                   `json:"currency"`
	Notes         string                   `json:"notes,omitempty"`
	Items         []InvoiceItemResponse    `json:"items,omitempty"`
	Payments      []PaymentSummaryResponse `json:"payments,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func toInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            invoice.ID.String(),
		ClientID:      invoice.ClientID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Status:        string(invoice.Status),
		TotalAmount:   invoice.TotalAmount.String(),
		Currency:      invoice.Currency,
		Notes:         invoice.Notes,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
	for i := range invoice.Items {
		item := &invoice.Items[i]
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			UnitPrice:   item.UnitPrice.String(),
			Quantity:    item.Quantity,
			Total:       item.Total.String(),
		})
	}
	for i := range invoice.Payments {
		payment := &invoice.Payments[i]
		resp.Payments = append(resp.Payments, PaymentSummaryResponse{
			ID:          payment.ID.String(),
			AmountPaid:  payment.AmountPaid.String(),
			PaymentDate: payment.PaymentDate,
			Method:      string(payment.Method),
		})
	}
	return resp
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	invoice, err := billing.NewInvoice(clientID, req.InvoiceNumber, req.IssueDate, req.DueDate,
		decimal.NewFromFloat(req.TotalAmount), req.Currency, billing.InvoiceStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	invoice.Notes = req.Notes

	for _, item := range req.Items {
		line, err := billing.NewInvoiceItem(invoice.ID, item.Description,
			item.Quantity, decimal.NewFromFloat(item.UnitPrice))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		invoice.Items = append(invoice.Items, *line)
	}

	created, err := h.invoiceService.CreateInvoice(c.Request.Context(), invoice)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(created))
}

// List handles GET /invoices with an optional client_id filter
func (h *InvoiceHandler) List(c *gin.Context) {
	var (
		invoices []billing.Invoice
		err      error
	)

	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		clientID, parseErr := uuid.Parse(clientIDStr)
		if parseErr != nil {
			h.BadRequest(c, "Invalid client ID")
			return
		}
		invoices, err = h.invoiceService.GetInvoicesByClientID(c.Request.Context(), clientID)
	} else {
		invoices, err = h.invoiceService.GetAllInvoices(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, toInvoiceResponse(&invoices[i]))
	}
	h.Success(c, responses)
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// Update handles PUT /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice.InvoiceNumber = req.InvoiceNumber
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	invoice.TotalAmount = decimal.NewFromFloat(req.TotalAmount)
	invoice.Currency = req.Currency
	invoice.Notes = req.Notes

	updated, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !updated {
		h.NotFound(c, "Invoice not found")
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// UpdateStatus handles PUT /invoices/:id/status, the explicit override
// that bypasses payment reconciliation
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), id, billing.InvoiceStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !updated {
		h.NotFound(c, "Invoice not found")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	deleted, err := h.invoiceService.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !deleted {
		h.NotFound(c, "Invoice not found")
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers invoice routes on the given router group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.PUT("/:id", h.Update)
		invoices.PUT("/:id/status", h.UpdateStatus)
		invoices.DELETE("/:id", h.Delete)
	}
}
