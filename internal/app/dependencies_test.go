package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func testLogger() *log.Entry {
	l := log.New()
	l.SetLevel(log.PanicLevel)
	return l.WithField("component", "test")
}

func TestNewDependencies_InMemory(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	defer deps.Close()

	if deps.Repo == nil {
		t.Error("order repository should not be nil")
	}
	if deps.OutboxRepo == nil {
		t.Error("outbox repository should not be nil")
	}
	if deps.IdempotencyRepo == nil {
		t.Error("idempotency repository should not be nil")
	}
	if deps.InventorySvc == nil {
		t.Error("inventory service should not be nil")
	}
	if deps.PaymentSvc == nil {
		t.Error("payment service should not be nil")
	}
	if deps.Store != nil {
		t.Error("postgres store should be nil without DSN")
	}
	if deps.KafkaProducer != nil {
		t.Error("kafka producer should be nil without brokers")
	}
}

func TestDependencies_CloseIsSafeWithoutResources(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}

	deps.Close()
	deps.Close()
}
