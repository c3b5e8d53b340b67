package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	collectiondomain "github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/config"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
)

type invoiceSvcStub struct {
	sweepN int64
}

func (s *invoiceSvcStub) List(context.Context, invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	return invoicedomain.ListInvoiceResponse{Invoices: []invoicedomain.Invoice{}}, nil
}

func (s *invoiceSvcStub) GetByID(context.Context, string) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
}

func (s *invoiceSvcStub) MarkAsPaid(context.Context, string, invoicedomain.MarkAsPaidRequest) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{}, invoicedomain.ErrAlreadyPaid
}

func (s *invoiceSvcStub) SweepOverdue(context.Context) (int64, error) {
	return s.sweepN, nil
}

type collectionSvcStub struct {
	result collectiondomain.ProcessResult
}

func (s *collectionSvcStub) ProcessOverdueInvoices(context.Context) (*collectiondomain.ProcessResult, error) {
	return &s.result, nil
}

func (s *collectionSvcStub) Report(context.Context) (*collectiondomain.DelinquencyReport, error) {
	return &collectiondomain.DelinquencyReport{
		ByAge:          map[string]collectiondomain.BucketStat{},
		TopDelinquents: []collectiondomain.Delinquent{},
	}, nil
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{CronSecret: "topsecret", HTTPAddr: ":0"}
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin: engine,
		Cfg: cfg,
		Log: zap.NewNop(),
		InvoiceSvc: &invoiceSvcStub{sweepN: 2},
		CollectionSvc: &collectionSvcStub{
			result: collectiondomain.ProcessResult{Processed: 5, RemindersSent: 3, Escalated: 1},
		},
	})
	return engine
}

func TestCronTriggerRequiresBearerSecret(t *testing.T) {
	engine := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/cron/collection", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/internal/cron/collection", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronTriggerReturnsCounters(t *testing.T) {
	engine := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/cron/collection", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 5, body["processed"])
	assert.EqualValues(t, 3, body["reminders_sent"])
	assert.EqualValues(t, 1, body["escalated"])
	assert.EqualValues(t, 2, body["swept_overdue"])
}

func TestManualRunEchoesPrincipal(t *testing.T) {
	engine := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/collection/run", nil)
	req.Header.Set("X-Admin-User", "maria")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "maria", body["triggered_by"])
}

func TestReportEndpoint(t *testing.T) {
	engine := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/collection/report", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_overdue")
}

func TestErrorMappingOnInvoiceEndpoints(t *testing.T) {
	engine := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/123", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/invoices/123/pay", strings.NewReader(`{"payment_method":"pix"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
