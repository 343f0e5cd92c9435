package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration. FromEnv builds it from
// environment variables so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// StoreBackend selects the donation store: "memory", "postgres" or "redis".
	StoreBackend string
	PostgresURL  string
	Redis        RedisConfig
	Kafka        KafkaConfig

	Geo  GeoConfig
	Code CodeConfig
}

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the lifecycle event sink settings. Empty Brokers disables
// the Kafka sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GeoConfig holds the display fallback coordinates used when a donation
// arrives without a usable pickup location.
type GeoConfig struct {
	DefaultLatitude  float64
	DefaultLongitude float64
	// JitterRadius is the maximum offset, in degrees, applied to the default
	// coordinate so fallback pins do not stack on the map.
	JitterRadius float64
}

// CodeConfig holds verification code generation settings.
type CodeConfig struct {
	Length int
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("GIVEBRIDGE_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "givebridge"),
		JWTAudience:   envOr("JWT_AUDIENCE", "givebridge-api"),
		StoreBackend:  envOr("DONATION_STORE", "memory"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_EVENTS_TOPIC", "givebridge.donation-events"),
		},
		Geo: GeoConfig{
			DefaultLatitude:  envFloatOr("GEO_DEFAULT_LAT", 45.2671),
			DefaultLongitude: envFloatOr("GEO_DEFAULT_LNG", 19.8335),
			JitterRadius:     envFloatOr("GEO_JITTER_RADIUS", 0.0025),
		},
		Code: CodeConfig{
			Length: envIntOr("DONATION_CODE_LENGTH", 6),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
