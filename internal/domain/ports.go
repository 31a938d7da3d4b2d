package domain

import "time"

// Clock отдаёт текущее время; внедряется в движок и действия,
// чтобы тесты могли фиксировать временные метки.
type Clock func() time.Time

// SystemClock — штатный источник времени (UTC).
func SystemClock() time.Time {
	return time.Now().UTC()
}

// PaymentService описывает взаимодействие с платёжным провайдером.
type PaymentService interface {
	// Capture списывает средства по заказу и возвращает платёжную ссылку.
	Capture(orderID string, amountMinor int64, method string) (string, error)
	// Refund возвращает средства и отдаёт ссылку возврата.
	Refund(orderID string, amountMinor int64) (string, error)
}

// InventoryService описывает взаимодействие с сервисом складских остатков.
type InventoryService interface {
	// Deduct списывает сток под отгруженный заказ.
	Deduct(orderID, productID string, qty int32) error
}

// Notifier доставляет клиенту сообщение об изменении статуса заказа.
type Notifier interface {
	Notify(order Order, message string) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
// FailedCount — сообщения, исчерпавшие retry и ушедшие в DLQ.
type OutboxStats struct {
	PendingCount    int
	FailedCount     int
	OldestPendingAt time.Time
}
