package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jacklee1792/predicord/pkg/postgresql"
)

// MustLoad loads the configuration from environment variables and .env
// file, panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the application.
type Config struct {
	Postgres   postgresql.Config `envPrefix:"POSTGRES_"`
	OrderKafka KafkaConfig       `envPrefix:"ORDER_KAFKA_"`
	TradeKafka KafkaConfig       `envPrefix:"TRADE_KAFKA_"`

	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`
}

// KafkaConfig holds the configuration for one Kafka topic.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"predicord"`
	Brokers []string `env:"BROKER,required"`
}
