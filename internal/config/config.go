package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	DataPath        string
	ModelPath       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Prediction audit publishing (optional).
	AuditBrokers []string
	AuditTopic   string
	AuditEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. PORT keeps the source system's default of 5000.
func Load() (*Config, error) {
	port, err := parsePort()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	auditBrokers := parseBrokers(os.Getenv("AUDIT_KAFKA_BROKERS"))
	auditEnabled := len(auditBrokers) > 0
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		auditEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        ":" + strconv.Itoa(port),
		DataPath:        envOrDefault("DATA_PATH", "data/df_dengue_tratado.csv"),
		ModelPath:       envOrDefault("MODEL_PATH", "models/modelo_reglog_otimizado.json"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AuditBrokers: auditBrokers,
		AuditTopic:   envOrDefault("AUDIT_KAFKA_TOPIC", "dengue-prediction-audit"),
		AuditEnabled: auditEnabled,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.ModelPath == "" {
		return nil, errors.New("MODEL_PATH is required")
	}
	if cfg.AuditEnabled && len(cfg.AuditBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but AUDIT_KAFKA_BROKERS is not set")
	}
	if cfg.AuditEnabled && cfg.AuditTopic == "" {
		return nil, errors.New("AUDIT_ENABLED is true but AUDIT_KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePort() (int, error) {
	s := envOrDefault("PORT", "5000")
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT %q", s)
	}
	return port, nil
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
