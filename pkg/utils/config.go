package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Lock     LockConfig
	AMQP     AMQPConfig
	Session  SessionConfig
	Booking  BookingConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	SeedFile string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

// RedisConfig is optional; an empty Addr disables the distributed lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

// AMQPConfig is optional; an empty URL disables event publishing.
type AMQPConfig struct {
	URL   string
	Queue string
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	// PayLater makes new reservations ACTIVE immediately instead of PENDING.
	PayLater bool
}

type PaymentConfig struct {
	WebhookSecret string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "smartclub")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("LOCK_WAIT_SECONDS", 5)
	viper.SetDefault("AMQP_QUEUE", "reservation.events")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("BOOKING_PAY_LATER", false)

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional in containers, the environment is enough
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			SeedFile: viper.GetString("SEED_FILE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Lock: LockConfig{
			TTL:  time.Duration(viper.GetInt("LOCK_TTL_SECONDS")) * time.Second,
			Wait: time.Duration(viper.GetInt("LOCK_WAIT_SECONDS")) * time.Second,
		},
		AMQP: AMQPConfig{
			URL:   viper.GetString("AMQP_URL"),
			Queue: viper.GetString("AMQP_QUEUE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			PayLater: viper.GetBool("BOOKING_PAY_LATER"),
		},
		Payment: PaymentConfig{
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
		},
	}

	return config, nil
}
