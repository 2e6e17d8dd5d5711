// Package config loads process configuration from the environment using
// struct tags, the same pattern matching-service/pkg/config uses.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StopTriggerReference selects the reference price a stop order compares
// against when no trade has occurred yet.
type StopTriggerReference string

const (
	// StopTriggerLastTrade triggers off the last executed trade price.
	// This is the only mode implemented; a stop submitted before any
	// trade has occurred is parked unconditionally (see DESIGN.md).
	StopTriggerLastTrade StopTriggerReference = "last_trade"
	// StopTriggerBestBidAskMid triggers off the bid/ask midpoint.
	// Accepted as a config value but rejected at startup: see
	// EngineConfig.Validate.
	StopTriggerBestBidAskMid StopTriggerReference = "best_bid_ask_mid"
)

// EngineConfig holds the knobs §6 of the specification names as the
// core's recognized CLI/configuration surface.
type EngineConfig struct {
	Symbol string `env:"SYMBOL,required"`

	// IngestionQueueCapacity bounds the MPSC ingestion queue. 0 means
	// unbounded.
	IngestionQueueCapacity int `env:"INGESTION_QUEUE_CAPACITY" envDefault:"10000"`
	// OutputChannelCapacity is loaded but not used by the engine: trades
	// go to the optional MatchPublisher, and there is no output channel.
	OutputChannelCapacity int `env:"OUTPUT_CHANNEL_CAPACITY" envDefault:"4096"`
	// LatencySampleSize bounds the FIFO latency sample buffer metrics
	// uses to estimate P50/P95/P99.
	LatencySampleSize int `env:"LATENCY_SAMPLE_SIZE" envDefault:"10000"`
	// StopTriggerReference selects the stop-order reference price.
	StopTriggerReference StopTriggerReference `env:"STOP_TRIGGER_REFERENCE" envDefault:"last_trade"`
	// MetricsAddr is the listen address for the /metrics HTTP endpoint.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// Validate rejects configuration combinations the engine does not
// implement, per SPEC_FULL.md's resolution of the stop-reference open
// question.
func (c EngineConfig) Validate() error {
	if c.StopTriggerReference != StopTriggerLastTrade {
		return ErrUnsupportedStopReference
	}
	return nil
}

// Config is the full process configuration: engine knobs plus the
// boundary adapters' settings.
type Config struct {
	Engine EngineConfig `envPrefix:""`

	Kafka KafkaConfig `envPrefix:"KAFKA_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// KafkaConfig configures the optional Kafka-backed order source and
// match publisher adapters.
type KafkaConfig struct {
	Brokers      []string `env:"BROKERS"`
	OrderTopic   string   `env:"ORDER_TOPIC" envDefault:"orders"`
	TradeTopic   string   `env:"TRADE_TOPIC" envDefault:"trades"`
	GroupID      string   `env:"GROUP_ID"`
}

// RedisConfig configures the optional Redis-backed snapshot store.
type RedisConfig struct {
	Addrs    []string `env:"ADDRS"`
	Password string   `env:"PASSWORD"`
	Username string   `env:"USERNAME"`
	DB       int      `env:"DB" envDefault:"0"`
}

// Load populates cfg from environment variables, first loading a local
// .env file if present (no-op if absent).
func Load[T any](cfg T) error {
	_ = godotenv.Load()
	return env.Parse(cfg)
}

// MustLoad is Load, panicking on error. Intended for process startup
// (main.go), not for library callers.
func MustLoad[T any](cfg T) T {
	if err := Load(cfg); err != nil {
		panic(err)
	}
	return cfg
}
