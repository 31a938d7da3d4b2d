package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderflow/internal/service/inventory"
	"github.com/vladislavdragonenkov/orderflow/internal/service/payment"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/postgres"
)

// Dependencies содержит инфраструктурные зависимости приложения.
type Dependencies struct {
	Repo            domain.OrderRepository
	OutboxRepo      domain.OutboxRepository
	IdempotencyRepo domain.IdempotencyRepository
	InventorySvc    domain.InventoryService
	PaymentSvc      domain.PaymentService
	Logger          *log.Entry

	// Store ненулевой только при работе с PostgreSQL.
	Store *postgres.Store
	// KafkaProducer ненулевой только при настроенных брокерах.
	KafkaProducer *kafka.Producer
}

// NewDependencies создаёт зависимости приложения согласно конфигурации:
// PostgreSQL при заданном DSN, иначе in-memory; Kafka при заданных брокерах.
// NOTE: платёжный и складской провайдеры — заглушки; в production их заменяют
// клиенты внешних сервисов.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		InventorySvc: inventory.NewStubProvider(logger),
		PaymentSvc:   payment.NewStubProvider(logger),
		Logger:       logger,
	}

	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.Store = store
		deps.Repo = postgres.NewOrderRepository(store)
		deps.OutboxRepo = postgres.NewOutboxRepository(store)
		deps.IdempotencyRepo = postgres.NewIdempotencyRepository(store)
		logger.Info("postgres storage initialized")
	} else {
		deps.Repo = memory.NewOrderRepository()
		deps.OutboxRepo = memory.NewOutboxRepository()
		deps.IdempotencyRepo = memory.NewIdempotencyRepository()
		logger.Info("in-memory storage initialized")
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.KafkaProducer = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka producer")
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
