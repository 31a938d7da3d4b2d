package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Глаголы API сопоставлены событиям переходов; явные маршруты вместо
// catch-all параметра, чтобы неизвестный глагол давал честный 404.
var eventRoutes = []struct {
	verb  string
	event domain.OrderEvent
}{
	{"pay", domain.OrderEventPay},
	{"ship", domain.OrderEventShip},
	{"deliver", domain.OrderEventDeliver},
	{"cancel", domain.OrderEventCancel},
	{"return", domain.OrderEventReturn},
}

// NewRouter собирает chi-маршрутизатор API заказов. idemp может быть nil,
// тогда POST-запросы обрабатываются без idempotency-слоя.
func NewRouter(h *Handlers, idemp func(http.Handler) http.Handler, logger *log.Entry) chi.Router {
	if logger == nil {
		logger = log.New().WithField("component", "http-router")
	}
	if idemp == nil {
		idemp = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(idemp).Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.GetOrder)
			r.Get("/events", h.AvailableEvents)

			for _, route := range eventRoutes {
				r.With(idemp).Post("/"+route.verb, h.SubmitEvent(route.event))
			}
		})
	})

	return r
}

// requestLogger пишет одну структурированную запись на запрос.
func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}).Info("http request")
		})
	}
}
