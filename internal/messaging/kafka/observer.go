package kafka

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/statemachine"
)

// TransitionObserver превращает жизненный цикл переходов в доменные события
// и ставит их в transactional outbox; до брокера их доводит outbox worker.
// Хук наблюдательный: ошибка постановки в очередь логируется и не влияет
// на исход перехода.
type TransitionObserver struct {
	outbox domain.OutboxRepository
	clock  domain.Clock
	logger *log.Entry
}

// NewTransitionObserver создаёт наблюдателя поверх outbox-репозитория.
func NewTransitionObserver(outbox domain.OutboxRepository, clock domain.Clock, logger *log.Entry) *TransitionObserver {
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = log.New().WithField("component", "kafka-transition-observer")
	}
	return &TransitionObserver{outbox: outbox, clock: clock, logger: logger}
}

var _ statemachine.Observer = (*TransitionObserver)(nil)

// TransitionStarted намеренно пуст: начало оценки не является доменным событием.
func (o *TransitionObserver) TransitionStarted(order *domain.Order, event domain.OrderEvent) {}

// TransitionCommitted ставит в очередь событие смены статуса.
func (o *TransitionObserver) TransitionCommitted(order *domain.Order, event domain.OrderEvent, from, to domain.OrderStatus) {
	o.enqueue(order.ID, NewTransitionEvent(
		EventTypeStatusChange, order.ID, string(event), string(from), string(to), o.clock(),
	))
}

// TransitionRejected ставит в очередь событие отклонённого перехода.
func (o *TransitionObserver) TransitionRejected(order *domain.Order, event domain.OrderEvent, reason error) {
	evt := NewTransitionEvent(
		EventTypeRejected, order.ID, string(event), string(order.Status), string(order.Status), o.clock(),
	)
	if reason != nil {
		evt.Reason = reason.Error()
	}
	o.enqueue(order.ID, evt)
}

// OrderCreated ставит в очередь событие создания заказа. Вызывается из
// транспортного слоя после успешного create (у движка нет такой точки).
func (o *TransitionObserver) OrderCreated(order domain.Order) {
	o.enqueue(order.ID, NewTransitionEvent(
		EventTypeOrderCreated, order.ID, "", "", string(order.Status), o.clock(),
	))
}

func (o *TransitionObserver) enqueue(orderID string, evt *TransitionEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		o.logger.WithError(err).WithField("order_id", orderID).Warn("failed to marshal transition event")
		return
	}

	if _, err := o.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     string(evt.EventType),
		Payload:       payload,
	}); err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"order_id":   orderID,
			"event_type": evt.EventType,
		}).Warn("failed to enqueue transition event")
	}
}
