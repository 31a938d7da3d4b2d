package notify

import (
	"encoding/json"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/memory"
)

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            "ORD-AAAA0001",
		ProductID:     "product-1",
		Quantity:      1,
		AmountMinor:   50000,
		Status:        domain.OrderStatusPaid,
		CustomerEmail: "customer@example.com",
		PaymentMethod: "CARD",
	}
}

func TestLogNotifier(t *testing.T) {
	notifier := NewLogNotifier(quietLogger())

	if err := notifier.Notify(sampleOrder(), "order status changed to PAID (payment completed)"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
}

func TestOutboxNotifier_EnqueuesNotification(t *testing.T) {
	outbox := memory.NewOutboxRepository()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	notifier := NewOutboxNotifier(outbox, func() time.Time { return fixed }, quietLogger())

	order := sampleOrder()
	message := "order status changed to PAID (payment completed)"
	if err := notifier.Notify(order, message); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	pending := outbox.AllPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(pending))
	}

	msg := pending[0]
	if msg.EventType != EventTypeCustomerNotification {
		t.Fatalf("unexpected event type: %s", msg.EventType)
	}
	if msg.AggregateID != order.ID {
		t.Fatalf("unexpected aggregate id: %s", msg.AggregateID)
	}

	var payload struct {
		OrderID    string    `json:"order_id"`
		Email      string    `json:"email"`
		Status     string    `json:"status"`
		Message    string    `json:"message"`
		OccurredAt time.Time `json:"occurred_at"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OrderID != order.ID || payload.Email != order.CustomerEmail {
		t.Fatalf("payload does not describe the order: %+v", payload)
	}
	if payload.Message != message {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
	if !payload.OccurredAt.Equal(fixed) {
		t.Fatalf("expected injected clock time, got %v", payload.OccurredAt)
	}
}
