// Package config описывает настройки сервиса и загружает их из YAML-файла,
// путь к которому передаётся через переменную окружения CONFIG_PATH.
// Любое поле можно переопределить переменной окружения из тега env.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	ModeratorGroup          string `yaml:"moderator_group" env:"MODERATOR_GROUP" env-default:"moderators"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	Payment                 `yaml:"payment"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCServer — адрес gRPC health-сервера; пустой адрес отключает его.
type GRPCServer struct {
	AddressGRPC string `yaml:"addressgrpc" env:"GRPC_ADDRESS"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токенами
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	AccessTTL    time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL   time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// Payment — настройки Stripe и пересчёта валют.
type Payment struct {
	StripeSecretKey string        `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
	StripeAPIURL    string        `yaml:"stripe_api_url" env:"STRIPE_API_URL"`
	SuccessURL      string        `yaml:"success_url" env-default:"http://localhost:8080/payments/success"`
	CancelURL       string        `yaml:"cancel_url" env-default:"http://localhost:8080/payments/cancel"`
	USDRUBRate      float64       `yaml:"usd_rub_rate" env-default:"95"`
	TimeoutPayment  time.Duration `yaml:"timeout" env-default:"10s"`
}

// RabbitMQ — публикация доменных событий; при EnabledRabbitMQ=false события не отправляются.
type RabbitMQ struct {
	URLRabbitMQ     string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange        string `yaml:"exchange" env-default:"lms.events"`
	EnabledRabbitMQ bool   `yaml:"enabled" env:"RABBITMQ_ENABLED"`
}

// RateLimit — глобальный лимит запросов к защищённым эндпоинтам.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"20"`
	Burst int     `yaml:"burst" env-default:"40"`
}

// Load читает конфиг из файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if path == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.USDRUBRate <= 0 {
		return nil, fmt.Errorf("%s: usd_rub_rate must be positive", op)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"ModeratorGroup: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"GRPCServer: %s\n"+
			"Redis: %s db=%d\n"+
			"JWT: access %s, refresh %s\n"+
			"Payment: rate %.2f, timeout %s, stripe configured: %t\n"+
			"RabbitMQ: enabled=%t exchange=%s\n",
		c.Env,
		c.ModeratorGroup,
		c.AddressHTTP, c.TimeoutHTTP, c.IdleTimeout,
		c.AddressGRPC,
		c.AddressRedis, c.DB,
		c.AccessTTL, c.RefreshTTL,
		c.USDRUBRate, c.TimeoutPayment, c.StripeSecretKey != "",
		c.EnabledRabbitMQ, c.Exchange,
	)
}
