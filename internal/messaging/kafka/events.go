package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События жизненного цикла заказа.
	EventTypeOrderCreated EventType = "order.created"
	EventTypeStatusChange EventType = "order.status_changed"
	EventTypeRejected     EventType = "order.transition_rejected"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "orderflow.order.events"
	TopicDeadLetterQueue = "orderflow.dlq" // Dead Letter Queue для failed messages
)

// TransitionEvent представляет событие перехода статуса заказа.
type TransitionEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	Trigger    string    `json:"trigger,omitempty"`
	FromStatus string    `json:"from_status,omitempty"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTransitionEvent создает новое событие перехода с меткой времени at.
func NewTransitionEvent(eventType EventType, orderID, trigger, fromStatus, status string, at time.Time) *TransitionEvent {
	return &TransitionEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Trigger:    trigger,
		FromStatus: fromStatus,
		Status:     status,
		Timestamp:  at,
	}
}
