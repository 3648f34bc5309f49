package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billing.Client{}, &billing.Invoice{}, &billing.InvoiceItem{}, &billing.Payment{}))

	scope := persistence.NewGormTransactionScope(db)
	log := zap.NewNop()

	clientService := appbilling.NewClientService(scope, persistence.NewGormClientRepository(db), log)
	invoiceService := appbilling.NewInvoiceService(scope, persistence.NewGormInvoiceRepository(db), log)
	paymentService := appbilling.NewPaymentService(scope, persistence.NewGormPaymentRepository(db), log)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewClientHandler(clientService).RegisterRoutes(api)
	NewInvoiceHandler(invoiceService).RegisterRoutes(api)
	NewPaymentHandler(paymentService).RegisterRoutes(api)

	return engine, db
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func seedInvoice(t *testing.T, db *gorm.DB, total string) *billing.Invoice {
	t.Helper()
	client, err := billing.NewClient("Initech LLC", "ap@initech.example")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormClientRepository(db).Create(context.Background(), client))

	now := time.Now()
	invoice, err := billing.NewInvoice(client.ID, "INV-"+uuid.NewString()[:8], now, now.AddDate(0, 1, 0),
		decimal.RequireFromString(total), "USD", billing.InvoiceStatusSent)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormInvoiceRepository(db).Create(context.Background(), invoice))
	return invoice
}

func TestPaymentHandler_CreateReconcilesInvoice(t *testing.T) {
	engine, db := setupRouter(t)
	invoice := seedInvoice(t, db, "200.00")

	rec := doRequest(t, engine, http.MethodPost, "/api/v1/payments", gin.H{
		"invoice_id":  invoice.ID.String(),
		"amount_paid": 100.0,
		"method":      "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, invoice.ID.String(), data["invoice_id"])
	assert.Equal(t, "100", data["amount_paid"])

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s", invoice.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partially_paid", decodeData(t, rec)["status"])
}

func TestPaymentHandler_CreateMissingInvoice(t *testing.T) {
	engine, _ := setupRouter(t)

	rec := doRequest(t, engine, http.MethodPost, "/api/v1/payments", gin.H{
		"invoice_id":  uuid.NewString(),
		"amount_paid": 100.0,
		"method":      "cash",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestPaymentHandler_CreateValidation(t *testing.T) {
	engine, db := setupRouter(t)
	invoice := seedInvoice(t, db, "200.00")

	// Missing amount
	rec := doRequest(t, engine, http.MethodPost, "/api/v1/payments", gin.H{
		"invoice_id": invoice.ID.String(),
		"method":     "cash",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown method
	rec = doRequest(t, engine, http.MethodPost, "/api/v1/payments", gin.H{
		"invoice_id":  invoice.ID.String(),
		"amount_paid": 10.0,
		"method":      "barter",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentHandler_DeleteRevertsInvoice(t *testing.T) {
	engine, db := setupRouter(t)
	invoice := seedInvoice(t, db, "200.00")

	rec := doRequest(t, engine, http.MethodPost, "/api/v1/payments", gin.H{
		"invoice_id":  invoice.ID.String(),
		"amount_paid": 200.0,
		"method":      "credit_card",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	paymentID := decodeData(t, rec)["id"].(string)

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s", invoice.ID), nil)
	assert.Equal(t, "paid", decodeData(t, rec)["status"])

	rec = doRequest(t, engine, http.MethodDelete, "/api/v1/payments/"+paymentID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s", invoice.ID), nil)
	assert.Equal(t, "sent", decodeData(t, rec)["status"])

	// Second delete of the same payment is a 404
	rec = doRequest(t, engine, http.MethodDelete, "/api/v1/payments/"+paymentID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHandler_GetUnknownID(t *testing.T) {
	engine, _ := setupRouter(t)

	rec := doRequest(t, engine, http.MethodGet, "/api/v1/payments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, engine, http.MethodGet, "/api/v1/payments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
