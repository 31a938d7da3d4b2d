package statemachine

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Observer получает уведомления о ключевых точках протокола перехода.
// Хуки чисто наблюдательные: их результат и паники не влияют на исход
// перехода. Все вызовы синхронные, в горутине вызывающего.
type Observer interface {
	// TransitionStarted вызывается после восстановления машины из статуса заказа,
	// до поиска правила и проверки guard.
	TransitionStarted(order *domain.Order, event domain.OrderEvent)
	// TransitionCommitted вызывается после фиксации целевого статуса в заказе.
	TransitionCommitted(order *domain.Order, event domain.OrderEvent, from, to domain.OrderStatus)
	// TransitionRejected вызывается при любом отказе: нет правила, guard, действие.
	TransitionRejected(order *domain.Order, event domain.OrderEvent, reason error)
}

// LogObserver пишет жизненный цикл переходов в структурный лог.
type LogObserver struct {
	logger *log.Entry
}

// NewLogObserver создаёт наблюдателя поверх переданного логгера.
func NewLogObserver(logger *log.Entry) *LogObserver {
	if logger == nil {
		logger = log.New().WithField("component", "statemachine")
	}
	return &LogObserver{logger: logger}
}

var _ Observer = (*LogObserver)(nil)

func (o *LogObserver) TransitionStarted(order *domain.Order, event domain.OrderEvent) {
	o.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   order.Status,
		"event":    event,
	}).Debug("transition started")
}

func (o *LogObserver) TransitionCommitted(order *domain.Order, event domain.OrderEvent, from, to domain.OrderStatus) {
	o.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"event":    event,
		"from":     from,
		"to":       to,
	}).Info("transition committed")
}

func (o *LogObserver) TransitionRejected(order *domain.Order, event domain.OrderEvent, reason error) {
	o.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   order.Status,
		"event":    event,
	}).WithError(reason).Warn("transition rejected")
}
