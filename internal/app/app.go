// Package app собирает зависимости сервиса заказов и управляет его жизненным циклом.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/orderflow/internal/health"
	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderflow/internal/metrics"
	idempcleanup "github.com/vladislavdragonenkov/orderflow/internal/service/idempotency"
	"github.com/vladislavdragonenkov/orderflow/internal/service/notify"
	"github.com/vladislavdragonenkov/orderflow/internal/service/order"
	"github.com/vladislavdragonenkov/orderflow/internal/service/outbox"
	"github.com/vladislavdragonenkov/orderflow/internal/statemachine"
	transport "github.com/vladislavdragonenkov/orderflow/internal/transport/http"
	"github.com/vladislavdragonenkov/orderflow/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run запускает сервис заказов и блокируется до отмены контекста
// или фатальной ошибки HTTP-сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	clock := domain.SystemClock
	machineMetrics := metrics.NewMachineMetrics()

	notifier := notify.NewOutboxNotifier(deps.OutboxRepo, clock, logger.WithField("layer", "notify"))
	kafkaObserver := kafka.NewTransitionObserver(deps.OutboxRepo, clock, logger.WithField("layer", "events"))

	guards := statemachine.NewGuards(logger)
	actions := statemachine.NewActions(deps.PaymentSvc, deps.InventorySvc, notifier, logger)
	table, err := statemachine.NewTable(guards, actions)
	if err != nil {
		return err
	}

	machine := statemachine.NewMachine(table, logger,
		statemachine.WithClock(clock),
		statemachine.WithMetrics(machineMetrics),
		statemachine.WithObservers(statemachine.NewLogObserver(logger), kafkaObserver),
	)

	svc := order.NewService(deps.Repo, machine, clock, logger.WithField("layer", "service"))

	handlers := transport.NewHandlers(svc, logger.WithField("layer", "http"),
		kafkaObserver.OrderCreated,
		func(domain.Order) { machineMetrics.RecordOrderCreated() },
	)
	idemp := transport.IdempotencyMiddleware(deps.IdempotencyRepo, clock, logger.WithField("layer", "idempotency"))
	router := transport.NewRouter(handlers, idemp, logger.WithField("layer", "http"))

	// Публикация outbox: в Kafka при настроенных брокерах, иначе в лог.
	var publisher domain.OutboxPublisher
	workerOpts := []outbox.Option{outbox.WithLogger(logger.WithField("layer", "outbox"))}
	if deps.KafkaProducer != nil {
		publisher = kafka.NewOutboxPublisher(deps.KafkaProducer, kafka.TopicOrderEvents)
		workerOpts = append(workerOpts,
			outbox.WithDLQPublisher(kafka.NewOutboxPublisher(deps.KafkaProducer, kafka.TopicDeadLetterQueue)),
		)
	} else {
		publisher = &logPublisher{logger: logger.WithField("layer", "outbox")}
	}

	outboxWorker := outbox.NewWorker(deps.OutboxRepo, publisher, workerOpts...)
	go outboxWorker.Run(ctx)

	cleanupWorker := idempcleanup.NewCleanupWorker(deps.IdempotencyRepo,
		idempcleanup.WithLogger(logger.WithField("layer", "idempotency-cleanup")),
		idempcleanup.WithClock(clock),
	)
	go cleanupWorker.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("outbox", healthcheck.NewOutboxChecker(deps.OutboxRepo, 0))
	if deps.Store != nil {
		store := deps.Store
		healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			return store.Ping(context.Background())
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics и health-проверок.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

// logPublisher печатает события outbox в лог, когда Kafka не настроена.
// Сообщения при этом помечаются отправленными: очередь не растёт бесконечно.
type logPublisher struct {
	logger *log.Entry
}

func (p *logPublisher) Publish(event domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"outbox_id":    event.ID,
		"aggregate_id": event.AggregateID,
		"event_type":   event.EventType,
	}).Info("outbox event (kafka disabled)")
	return nil
}

var _ domain.OutboxPublisher = (*logPublisher)(nil)
