package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paymentservice/internal/api"
	"paymentservice/internal/events"
	"paymentservice/internal/geo"
	"paymentservice/internal/metrics"
	"paymentservice/internal/payments"
	"paymentservice/internal/payments/handlers"
)

type stubNotifier struct{}

func (stubNotifier) Notify(context.Context, *payments.Payment) (payments.NotificationStatus, error) {
	return payments.NotificationSuccess, nil
}

type inlineSubmitter struct{}

func (inlineSubmitter) Submit(task func(ctx context.Context)) bool {
	task(context.Background())
	return true
}

type recordingTracker struct {
	mu      sync.Mutex
	actions []string
}

func (t *recordingTracker) Track(_, action string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = append(t.actions, action)
}

func newTestServer(t *testing.T) (*echo.Echo, *recordingTracker) {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	service := payments.NewService(payments.NewMemoryStore(), payments.DefaultPolicy(), stubNotifier{}, inlineSubmitter{}, events.NoopPublisher{}, m, zap.NewNop())
	tracker := &recordingTracker{}

	e := api.NewRouter(api.RouterConfig{ServiceName: "payment-service", Gatherer: reg}, handlers.NewPaymentHandler(service, tracker, zap.NewNop()), zap.NewNop())
	return e, tracker
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const type1Body = `{
	"type": "TYPE1",
	"money": {"amount": 100.00, "currency": "EUR"},
	"debtor_iban": "LT121000011101001000",
	"creditor_iban": "LT601010012345678901",
	"details": "rent"
}`

func TestCreatePayment(t *testing.T) {
	e, tracker := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/payments", type1Body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["validationErrors"])

	payment, ok := resp["payment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "TYPE1", payment["type"])
	assert.Equal(t, "rent", payment["details"])
	assert.NotContains(t, payment, "creditorBankBIC")
	assert.Contains(t, rec.Body.String(), `"amount":100.00`)

	assert.Equal(t, []string{geo.ContextCreation}, tracker.actions)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestCreatePaymentValidationFailure(t *testing.T) {
	e, _ := newTestServer(t)

	body := strings.Replace(type1Body, `"EUR"`, `"USD"`, 1)
	rec := do(e, http.MethodPost, "/api/payments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validationErrors":["TYPE1 payment is not allowed to be used with currency USD"]}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/payments", "null")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validationErrors":["Payment creation request cannot be null"]}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/payments", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPayments(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(e, http.MethodPost, "/api/payments", type1Body)
	rec = do(e, http.MethodGet, "/api/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0]["id"])
}

func TestCancelPayment(t *testing.T) {
	e, tracker := newTestServer(t)
	do(e, http.MethodPost, "/api/payments", type1Body)

	rec := do(e, http.MethodDelete, "/api/payments", "1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["validationErrors"])
	assert.Contains(t, resp["message"], "Payment with id 1 was successfully cancelled. Cancellation fee is: ")
	assert.Contains(t, resp["message"], " EUR")
	assert.NotContains(t, resp, "payment")
	assert.Contains(t, tracker.actions, geo.ContextCancellation)

	rec = do(e, http.MethodDelete, "/api/payments", "1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validationErrors":["Payment with id 1 is already canceled"]}`, rec.Body.String())

	// A missing id answers 404. The older controller answered 400 because it
	// checked the validation errors before the not-found case.
	rec = do(e, http.MethodDelete, "/api/payments", "77")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"validationErrors":["Provided payment id does not exist"]}`, rec.Body.String())

	rec = do(e, http.MethodDelete, "/api/payments", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEndpoints(t *testing.T) {
	e, _ := newTestServer(t)
	for _, amount := range []string{"10", "50", "2.5"} {
		body := strings.Replace(type1Body, "100.00", amount, 1)
		require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/payments", body).Code)
	}
	require.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/api/payments", "2").Code)

	rec := do(e, http.MethodPost, "/api/payments/querying/notCancelled", `{"filter":true,"minAmount":5,"maxAmount":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[1]`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/payments/querying/notCancelled", `{"filter":false,"minAmount":5,"maxAmount":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[1,3]`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/payments/querying/cancellationDetails", "2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)
	assert.Contains(t, rec.Body.String(), `"currency":"EUR"`)

	rec = do(e, http.MethodPost, "/api/payments/querying/cancellationDetails", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"cancellationFee":null}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/payments/querying/cancellationDetails", "9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e, _ := newTestServer(t)
	do(e, http.MethodPost, "/api/payments", type1Body)

	rec := do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `payments_created_total{type="TYPE1"} 1`)
}
