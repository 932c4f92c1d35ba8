package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the PostgreSQL connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores the sync-change consumer settings. Empty brokers or topic
// disable the consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// RateLimit stores per-client request limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Media stores the media file store settings.
type Media struct {
	Dir string
}

// Config stores delivery service settings.
type Config struct {
	Port      int
	DB        DB
	Kafka     Kafka
	RateLimit RateLimit
	Media     Media
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		DB:        DefaultDB(),
		Kafka:     DefaultKafka(),
		RateLimit: DefaultRateLimit(),
		Media:     DefaultMedia(),
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}

	cfg.DB.Host = getenv("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = getenv("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = getenv("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = getenv("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = getenv("POSTGRES_DB", cfg.DB.Name)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.GroupID = getenv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.Topic = getenv("KAFKA_SYNC_TOPIC", cfg.Kafka.Topic)

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("RATE_LIMIT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimit.Rate = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimit.TTL = d
		}
	}

	cfg.Media.Dir = getenv("MEDIA_DIR", cfg.Media.Dir)

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
