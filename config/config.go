package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the composition root needs; nothing else reads
// the environment directly.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`

	AMQPURL       string `envconfig:"AMQP_URL"`
	AMQPQueue     string `envconfig:"AMQP_QUEUE" default:"order_events"`
	AMQPPoolSize  int    `envconfig:"AMQP_POOL_SIZE" default:"10"`
	PaymentSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET"`
	// Signature verification is on unless sandbox mode is asked for.
	PaymentMode string `envconfig:"PAYMENT_MODE" default:"live"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
