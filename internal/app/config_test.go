package app

import (
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTP addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected metrics addr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database URL, got %s", cfg.DatabaseURL)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("expected no kafka brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ORDERFLOW_HTTP_ADDR", ":18080")
	t.Setenv("ORDERFLOW_METRICS_ADDR", ":19090")
	t.Setenv("ORDERFLOW_DATABASE_URL", "postgres://localhost:5432/orderflow")
	t.Setenv("ORDERFLOW_KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")

	cfg := ConfigFromEnv()

	if cfg.HTTPAddr != ":18080" {
		t.Errorf("expected HTTP addr :18080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":19090" {
		t.Errorf("expected metrics addr :19090, got %s", cfg.MetricsAddr)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/orderflow" {
		t.Errorf("unexpected database URL: %s", cfg.DatabaseURL)
	}
	if want := []string{"broker-1:9092", "broker-2:9092"}; !reflect.DeepEqual(cfg.KafkaBrokers, want) {
		t.Errorf("expected brokers %v, got %v", want, cfg.KafkaBrokers)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("ORDERFLOW_HTTP_ADDR", "")
	t.Setenv("ORDERFLOW_METRICS_ADDR", "")
	t.Setenv("ORDERFLOW_DATABASE_URL", "")
	t.Setenv("ORDERFLOW_KAFKA_BROKERS", "")

	cfg := ConfigFromEnv()

	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Errorf("expected defaults to survive empty env, got %+v", cfg)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" a:9092 ,, b:9092 ")
	want := []string{"a:9092", "b:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
