package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/service/inventory"
	"github.com/vladislavdragonenkov/orderflow/internal/service/notify"
	"github.com/vladislavdragonenkov/orderflow/internal/service/order"
	"github.com/vladislavdragonenkov/orderflow/internal/service/payment"
	"github.com/vladislavdragonenkov/orderflow/internal/statemachine"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/memory"
)

func testLogger() *log.Entry {
	l := log.New()
	l.SetLevel(log.PanicLevel)
	return l.WithField("component", "test")
}

type apiEnv struct {
	router  http.Handler
	created []domain.Order
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	logger := testLogger()
	repo := memory.NewOrderRepository()
	idempRepo := memory.NewIdempotencyRepository()

	guards := statemachine.NewGuards(logger)
	actions := statemachine.NewActions(
		payment.NewStubProvider(logger),
		inventory.NewStubProvider(logger),
		notify.NewLogNotifier(logger),
		logger,
	)
	table, err := statemachine.NewTable(guards, actions)
	if err != nil {
		t.Fatalf("failed to build transition table: %v", err)
	}

	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	machine := statemachine.NewMachine(table, logger, statemachine.WithClock(clock))
	svc := order.NewService(repo, machine, clock, logger)

	env := &apiEnv{}
	handlers := NewHandlers(svc, logger, func(o domain.Order) {
		env.created = append(env.created, o)
	})

	env.router = NewRouter(handlers, IdempotencyMiddleware(idempRepo, clock, logger), logger)
	return env
}

func (e *apiEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) createOrder(t *testing.T) orderResponse {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/orders", createOrderRequest{
		ProductID:     "PRD-1001",
		Quantity:      2,
		AmountMinor:   50000,
		CustomerEmail: "customer@example.com",
		PaymentMethod: "CARD",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp orderResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode order response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestCreateOrder(t *testing.T) {
	env := newAPIEnv(t)

	created := env.createOrder(t)

	if created.ID == "" {
		t.Error("expected non-empty order id")
	}
	if created.Status != string(domain.OrderStatusCreated) {
		t.Errorf("expected status CREATED, got %s", created.Status)
	}
	if created.Version != 0 {
		t.Errorf("expected version 0, got %d", created.Version)
	}

	if len(env.created) != 1 {
		t.Fatalf("expected created hook to fire once, fired %d times", len(env.created))
	}
	if env.created[0].ID != created.ID {
		t.Errorf("hook saw order %s, response has %s", env.created[0].ID, created.ID)
	}
}

func TestCreateOrder_ValidationError(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders", createOrderRequest{
		ProductID: "",
		Quantity:  0,
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Error != codeValidation {
		t.Errorf("expected error code VALIDATION, got %s", resp.Error)
	}
	if len(env.created) != 0 {
		t.Error("created hook should not fire for rejected request")
	}
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	env := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/orders/ORD-MISSING", nil, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Error != codeNotFound {
		t.Errorf("expected error code NOT_FOUND, got %s", resp.Error)
	}
}

func TestSubmitPay(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/pay", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp orderResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != string(domain.OrderStatusPaid) {
		t.Errorf("expected status PAID, got %s", resp.Status)
	}
	if resp.PaymentRef == "" {
		t.Error("expected payment_ref to be set after payment")
	}
	if resp.PaidAt == nil {
		t.Error("expected paid_at to be set after payment")
	}
	if resp.Version != 1 {
		t.Errorf("expected version 1 after transition, got %d", resp.Version)
	}
}

func TestSubmitPay_Twice(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	if w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/pay", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("first pay failed: %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/pay", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Error != codeInvalidTransition {
		t.Errorf("expected error code INVALID_TRANSITION, got %s", resp.Error)
	}
}

func TestSubmitShip_FromCreated(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/ship", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestSubmitCancel_FromCreated(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp orderResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(domain.OrderStatusCancelled) {
		t.Errorf("expected status CANCELLED, got %s", resp.Status)
	}
	if resp.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}
}

func TestSubmit_UnknownVerb(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders/"+created.ID+"/refund", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown verb, got %d", w.Code)
	}
}

func TestListOrders(t *testing.T) {
	env := newAPIEnv(t)
	env.createOrder(t)
	env.createOrder(t)

	w := env.do(t, http.MethodGet, "/api/v1/orders", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp listOrdersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
	if len(resp.Orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(resp.Orders))
	}
}

func TestAvailableEvents(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createOrder(t)

	w := env.do(t, http.MethodGet, "/api/v1/orders/"+created.ID+"/events", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp availableEventsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != string(domain.OrderStatusCreated) {
		t.Errorf("expected status CREATED, got %s", resp.Status)
	}

	got := make(map[string]bool, len(resp.Events))
	for _, e := range resp.Events {
		got[e.Event] = true
	}
	if !got["PAY"] || !got["CANCEL"] {
		t.Errorf("expected PAY and CANCEL to be available, got %v", resp.Events)
	}
	if got["SHIP"] || got["DELIVER"] || got["RETURN"] {
		t.Errorf("unexpected events available from CREATED: %v", resp.Events)
	}
}

func TestIdempotency_ReplaysResponse(t *testing.T) {
	env := newAPIEnv(t)

	body := createOrderRequest{
		ProductID:     "PRD-1001",
		Quantity:      1,
		AmountMinor:   1000,
		CustomerEmail: "customer@example.com",
		PaymentMethod: "CARD",
	}
	headers := map[string]string{idempotencyHeader: "key-001"}

	first := env.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", first.Code)
	}

	second := env.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", second.Code)
	}
	if second.Header().Get("Idempotent-Replay") != "true" {
		t.Error("expected Idempotent-Replay header on replayed response")
	}

	var a, b orderResponse
	if err := json.NewDecoder(first.Body).Decode(&a); err != nil {
		t.Fatalf("failed to decode first response: %v", err)
	}
	if err := json.NewDecoder(second.Body).Decode(&b); err != nil {
		t.Fatalf("failed to decode second response: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("expected replay to return the same order, got %s and %s", a.ID, b.ID)
	}

	if len(env.created) != 1 {
		t.Errorf("expected exactly one order creation, hook fired %d times", len(env.created))
	}
}

func TestIdempotency_HashMismatch(t *testing.T) {
	env := newAPIEnv(t)

	headers := map[string]string{idempotencyHeader: "key-002"}

	first := env.do(t, http.MethodPost, "/api/v1/orders", createOrderRequest{
		ProductID: "PRD-1001", Quantity: 1, AmountMinor: 1000, PaymentMethod: "CARD",
	}, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", first.Code)
	}

	second := env.do(t, http.MethodPost, "/api/v1/orders", createOrderRequest{
		ProductID: "PRD-2002", Quantity: 5, AmountMinor: 9000, PaymentMethod: "CARD",
	}, headers)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", second.Code)
	}
	if resp := decodeError(t, second); resp.Error != codeIdempotency {
		t.Errorf("expected error code IDEMPOTENCY_CONFLICT, got %s", resp.Error)
	}
}

func TestIdempotency_FailedResponseReplayed(t *testing.T) {
	env := newAPIEnv(t)

	headers := map[string]string{idempotencyHeader: "key-003"}
	body := createOrderRequest{ProductID: "", Quantity: 0}

	first := env.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	if first.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", first.Code)
	}

	second := env.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected replayed status 400, got %d", second.Code)
	}
	if second.Header().Get("Idempotent-Replay") != "true" {
		t.Error("expected Idempotent-Replay header on replayed response")
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	env := newAPIEnv(t)

	env.createOrder(t)
	env.createOrder(t)

	if len(env.created) != 2 {
		t.Errorf("expected two independent creations without idempotency key, got %d", len(env.created))
	}
}
