package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	if cfg.DataDir != "data" {
		t.Fatalf("DataDir=%q want data", cfg.DataDir)
	}
	if cfg.StorageBackend != "file" {
		t.Fatalf("StorageBackend=%q want file", cfg.StorageBackend)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("KafkaBrokers=%v want none", cfg.KafkaBrokers)
	}
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Fatalf("KafkaBrokers=%v", cfg.KafkaBrokers)
	}
}
