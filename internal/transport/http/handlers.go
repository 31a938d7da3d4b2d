// Package http реализует REST API жизненного цикла заказов поверх chi.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/service/order"
)

// Handlers содержит HTTP-обработчики заказов.
type Handlers struct {
	svc          *order.Service
	createdHooks []func(domain.Order)
	logger       *log.Entry
}

// NewHandlers создаёт обработчики. createdHooks вызываются после успешного
// создания заказа (публикация события, метрики); у движка переходов такой
// точки нет, поэтому хук живёт на транспортном слое.
func NewHandlers(svc *order.Service, logger *log.Entry, createdHooks ...func(domain.Order)) *Handlers {
	if logger == nil {
		logger = log.New().WithField("component", "http-handlers")
	}
	return &Handlers{
		svc:          svc,
		createdHooks: createdHooks,
		logger:       logger,
	}
}

// CreateOrder обрабатывает POST /orders.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	created, err := h.svc.Create(req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	for _, hook := range h.createdHooks {
		hook(created)
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

// GetOrder обрабатывает GET /orders/{orderID}.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Get(chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(found))
}

// ListOrders обрабатывает GET /orders.
func (h *Handlers) ListOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := h.svc.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := listOrdersResponse{
		Orders: make([]orderResponse, 0, len(orders)),
		Total:  len(orders),
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SubmitEvent возвращает обработчик POST /orders/{orderID}/<verb> для события.
func (h *Handlers) SubmitEvent(event domain.OrderEvent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")

		updated, err := h.svc.Submit(orderID, event)
		if err != nil {
			h.logger.WithError(err).WithFields(log.Fields{
				"order_id": orderID,
				"event":    event,
			}).Info("transition rejected")
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(updated))
	}
}

// AvailableEvents обрабатывает GET /orders/{orderID}/events: интроспекция
// структурно возможных событий без оценки guard-предикатов.
func (h *Handlers) AvailableEvents(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	status, events, err := h.svc.AvailableEvents(orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := availableEventsResponse{
		OrderID: orderID,
		Status:  string(status),
		Events:  make([]availableEvent, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, availableEvent{
			Event:       string(e),
			Description: e.Description(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
