package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ORG_ID", "HDFC")
	t.Setenv("NPCI_BASE_URL", "http://npci.local:9001")
	t.Setenv("SWITCH_BASE_URL", "http://switch.local:9002")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 8080 || cfg.App.LogLevel != "info" {
		t.Fatalf("app defaults = %+v", cfg.App)
	}
	if cfg.Bank.ParticipationCode != "HDF" {
		t.Fatalf("participation code = %q, want HDF", cfg.Bank.ParticipationCode)
	}
	if cfg.Counterparts.SendTimeout != 10*time.Second {
		t.Fatalf("send timeout = %v, want 10s", cfg.Counterparts.SendTimeout)
	}
	if cfg.Workers.PoolSize != 8 || cfg.Workers.QueueDepth != 64 {
		t.Fatalf("worker defaults = %+v", cfg.Workers)
	}
	if cfg.Audit.Enabled() {
		t.Fatal("audit must be disabled without brokers")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BANK_PARTICIPATION_CODE", "SBI")
	t.Setenv("WORKER_POOL_SIZE", "4")
	t.Setenv("WORKER_QUEUE_DEPTH", "32")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("DATA_DIR", "/var/lib/imps")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bank.ParticipationCode != "SBI" {
		t.Fatalf("participation code = %q", cfg.Bank.ParticipationCode)
	}
	if cfg.Workers.PoolSize != 4 || cfg.Workers.QueueDepth != 32 {
		t.Fatalf("workers = %+v", cfg.Workers)
	}
	if len(cfg.Audit.Brokers) != 2 || !cfg.Audit.Enabled() {
		t.Fatalf("audit = %+v", cfg.Audit)
	}
	if cfg.Store.DataDir != "/var/lib/imps" {
		t.Fatalf("data dir = %q", cfg.Store.DataDir)
	}
}

func TestLoadAccumulatesErrors(t *testing.T) {
	t.Setenv("ORG_ID", "")
	t.Setenv("NPCI_BASE_URL", "")
	t.Setenv("SWITCH_BASE_URL", "")
	t.Setenv("WORKER_POOL_SIZE", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"ORG_ID", "NPCI_BASE_URL", "SWITCH_BASE_URL", "WORKER_POOL_SIZE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %s: %v", want, err)
		}
	}
}

func TestLoadRejectsBadParticipationCode(t *testing.T) {
	setRequired(t)
	t.Setenv("BANK_PARTICIPATION_CODE", "TOOLONG")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BANK_PARTICIPATION_CODE") {
		t.Fatalf("got %v, want participation code error", err)
	}
}
