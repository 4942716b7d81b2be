// Package config loads the gateway's runtime configuration from the
// environment, applying defaults and accumulating every missing or invalid
// key into a single validation error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the gateway.
type Config struct {
	App          AppConfig
	Bank         BankConfig
	Counterparts CounterpartConfig
	Workers      WorkerConfig
	Store        StoreConfig
	Audit        AuditConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	Port     int
	LogLevel string
}

// BankConfig identifies this gateway inside generated messages.
type BankConfig struct {
	// ParticipationCode is the 3 character prefix of generated identifiers.
	ParticipationCode string
	OrgID             string
	TerminalID        string
}

// CounterpartConfig addresses the two counterpart systems.
type CounterpartConfig struct {
	NPCIBaseURL   string
	SwitchBaseURL string
	SendTimeout   time.Duration
	MaxInflight   int64
}

// WorkerConfig sizes the asynchronous processing pool.
type WorkerConfig struct {
	PoolSize   int
	QueueDepth int
}

// StoreConfig locates the transaction store. An empty DataDir selects the
// in-memory badger database.
type StoreConfig struct {
	DataDir string
}

// AuditConfig enables the Kafka audit publisher when brokers are set.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether audit publishing is configured.
func (a AuditConfig) Enabled() bool {
	return len(a.Brokers) > 0 && a.Topic != ""
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("HTTP_PORT", 8080, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Bank.ParticipationCode = ldr.getString("BANK_PARTICIPATION_CODE", "HDF", false)
	cfg.Bank.OrgID = ldr.getString("ORG_ID", "", true)
	cfg.Bank.TerminalID = ldr.getString("TERMINAL_ID", "GATEWAY1", false)

	cfg.Counterparts.NPCIBaseURL = ldr.getString("NPCI_BASE_URL", "", true)
	cfg.Counterparts.SwitchBaseURL = ldr.getString("SWITCH_BASE_URL", "", true)
	cfg.Counterparts.SendTimeout = time.Duration(ldr.getInt("SEND_TIMEOUT_SECONDS", 10, false)) * time.Second
	cfg.Counterparts.MaxInflight = int64(ldr.getInt("SENDER_MAX_INFLIGHT", 64, false))

	cfg.Workers.PoolSize = ldr.getInt("WORKER_POOL_SIZE", 8, false)
	cfg.Workers.QueueDepth = ldr.getInt("WORKER_QUEUE_DEPTH", 64, false)

	cfg.Store.DataDir = ldr.getString("DATA_DIR", "", false)

	cfg.Audit.Brokers = ldr.getStringSlice("KAFKA_BROKERS", false)
	cfg.Audit.Topic = ldr.getString("AUDIT_TOPIC", "imps.audit", false)

	if len(cfg.Bank.ParticipationCode) != 3 {
		ldr.addError("BANK_PARTICIPATION_CODE must be exactly 3 characters")
	}
	if cfg.Workers.PoolSize < 1 {
		ldr.addError("WORKER_POOL_SIZE must be >= 1")
	}
	if cfg.Workers.QueueDepth < 0 {
		ldr.addError("WORKER_QUEUE_DEPTH cannot be negative")
	}
	if cfg.Counterparts.SendTimeout <= 0 {
		ldr.addError("SEND_TIMEOUT_SECONDS must be positive")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
