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
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Selection configuration (tectonic regions + override layers).
	SelectionConfigPath string

	// Tectonic classification service.
	StrecURL       string
	StrecTimeout   time.Duration
	StrecCacheSize int

	// Geographic layer distance service. Optional: when unset, no override
	// layers can be resolved and the selection config must not declare any.
	GeoLayersURL     string
	GeoLayersTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDurationEnv("BATCH_FLUSH_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	strecTimeout, err := parseDurationEnv("STREC_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	geoTimeout, err := parseDurationEnv("GEOLAYERS_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	batchSize, err := parseIntEnv("BATCH_SIZE", 32)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntEnv("STREC_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "earthquake-origins"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "gmpe-assignments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "gmpe-select"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SelectionConfigPath: envOrDefault("SELECTION_CONFIG", "config/select.yaml"),

		StrecURL:       os.Getenv("STREC_URL"),
		StrecTimeout:   strecTimeout,
		StrecCacheSize: cacheSize,

		GeoLayersURL:     os.Getenv("GEOLAYERS_URL"),
		GeoLayersTimeout: geoTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.StrecURL == "" {
		return nil, errors.New("STREC_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
