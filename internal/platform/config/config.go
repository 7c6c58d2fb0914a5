// Package config centralizes environment-driven configuration so main stays
// lean and services receive plain values.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pStrings "dataspace/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// DatabaseURL selects the postgres stores when set; empty means the
	// in-memory stores are used.
	DatabaseURL string

	Redis     RedisConfig
	Kafka     KafkaConfig
	Connector ConnectorConfig
	Policy    PolicyConfig
}

// RedisConfig configures the request-rate counter backend. Empty URL disables
// Redis and falls back to the in-process counter.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit fan-out. Empty Brokers disables
// the Kafka sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ConnectorConfig configures the dataspace connector client. Empty BaseURL
// selects the deterministic mock connector.
type ConnectorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PolicyConfig carries the parameters of the default policy tree and the
// fallback facts used when a transfer request omits them.
type PolicyConfig struct {
	BusinessHoursStart    string // "08:00"
	BusinessHoursEnd      string // "18:00"
	BusinessHoursZone     string // IANA zone name
	AllowedRegions        []string
	RequiredCertification string
	MaxRequestsPerHour    int64
	AllowedPurpose        string

	// Defaults applied when the initiation request leaves them empty.
	DefaultRegion         string
	DefaultCertifications []string
	DefaultPurpose        string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        getenv("ORCHESTRATOR_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: getenvList("KAFKA_BROKERS", nil),
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "transfer-audit"),
		},
		Connector: ConnectorConfig{
			BaseURL: os.Getenv("CONNECTOR_BASE_URL"),
			Timeout: getenvDuration("CONNECTOR_TIMEOUT", 30*time.Second),
		},
		Policy: PolicyConfig{
			BusinessHoursStart:    getenv("POLICY_BUSINESS_HOURS_START", "08:00"),
			BusinessHoursEnd:      getenv("POLICY_BUSINESS_HOURS_END", "18:00"),
			BusinessHoursZone:     getenv("POLICY_BUSINESS_HOURS_ZONE", "Europe/Berlin"),
			AllowedRegions:        getenvList("POLICY_ALLOWED_REGIONS", []string{"EU", "DE", "FR", "NL", "IT", "ES"}),
			RequiredCertification: getenv("POLICY_REQUIRED_CERTIFICATION", "ISO_9001"),
			MaxRequestsPerHour:    int64(getenvInt("POLICY_MAX_REQUESTS_PER_HOUR", 100)),
			AllowedPurpose:        getenv("POLICY_ALLOWED_PURPOSE", "QUALITY_ANALYSIS"),
			DefaultRegion:         getenv("POLICY_DEFAULT_REGION", "EU"),
			DefaultCertifications: getenvList("POLICY_DEFAULT_CERTIFICATIONS", []string{"ISO_9001"}),
			DefaultPurpose:        getenv("POLICY_DEFAULT_PURPOSE", "QUALITY_ANALYSIS"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return pStrings.DedupeAndTrim(strings.Split(v, ","))
}
