// Package notify содержит доставку клиентских уведомлений о смене статуса.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// EventTypeCustomerNotification — тип события уведомления в outbox.
const EventTypeCustomerNotification = "notification.customer"

// LogNotifier пишет уведомление в лог. Используется как дефолтная доставка
// в локальной разработке и в тестах.
type LogNotifier struct {
	logger *log.Entry
}

// NewLogNotifier создаёт лог-доставку уведомлений.
func NewLogNotifier(logger *log.Entry) *LogNotifier {
	if logger == nil {
		logger = log.New().WithField("component", "notifier")
	}
	return &LogNotifier{logger: logger}
}

// Notify выводит текст уведомления в структурный лог.
func (n *LogNotifier) Notify(order domain.Order, message string) error {
	n.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"email":    order.CustomerEmail,
		"status":   order.Status,
	}).Info(message)
	return nil
}

var _ domain.Notifier = (*LogNotifier)(nil)

// notificationPayload — тело события уведомления для внешнего канала доставки.
type notificationPayload struct {
	OrderID    string    `json:"order_id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OutboxNotifier кладёт уведомление в transactional outbox; фактическую
// доставку выполняет воркер публикации. Синхронный вызов в цепочке действий
// остаётся дешёвым и не зависит от внешнего канала.
type OutboxNotifier struct {
	outbox domain.OutboxRepository
	clock  domain.Clock
	logger *log.Entry
}

// NewOutboxNotifier создаёт доставку уведомлений через outbox.
func NewOutboxNotifier(outbox domain.OutboxRepository, clock domain.Clock, logger *log.Entry) *OutboxNotifier {
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = log.New().WithField("component", "notifier")
	}
	return &OutboxNotifier{outbox: outbox, clock: clock, logger: logger}
}

// Notify сериализует уведомление и ставит его в очередь публикации.
func (n *OutboxNotifier) Notify(order domain.Order, message string) error {
	payload, err := json.Marshal(notificationPayload{
		OrderID:    order.ID,
		Email:      order.CustomerEmail,
		Status:     string(order.Status),
		Message:    message,
		OccurredAt: n.clock(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification for order %s: %w", order.ID, err)
	}

	msg, err := n.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     EventTypeCustomerNotification,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("enqueue notification for order %s: %w", order.ID, err)
	}

	n.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"outbox_id": msg.ID,
	}).Debug("notification enqueued")
	return nil
}

var _ domain.Notifier = (*OutboxNotifier)(nil)
