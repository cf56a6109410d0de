// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
// Секреты (строка подключения, ключ JWT, учетные данные bootstrap-администратора,
// пароли SMTP и демо-записи) задаются переменными окружения и не попадают в исходники.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек портала.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	WarningWindowDays       int    `yaml:"warning_window_days" env:"WARNING_WINDOW_DAYS" env-default:"7"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	BootstrapAdmin          `yaml:"bootstrap_admin"`
	DemoAccount             `yaml:"demo_account"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном сессии.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ структура для подключения к брокеру уведомлений.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"10"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// SMTP структура для отправки почтовых уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// BootstrapAdmin — учетные данные администратора, создаваемого
// явным идемпотентным шагом при первом запуске. Пароль приходит
// только из окружения.
type BootstrapAdmin struct {
	AdminEmail    string `yaml:"email" env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	AdminName     string `yaml:"name" env-default:"System Administrator"`
}

// DemoAccount — необязательная демонстрационная учетная запись компании.
type DemoAccount struct {
	DemoEnabled         bool   `yaml:"enabled" env:"DEMO_ACCOUNT_ENABLED" env-default:"false"`
	DemoEmail           string `yaml:"email" env-default:"demo@company.com"`
	DemoPassword        string `env:"DEMO_ACCOUNT_PASSWORD"`
	DemoCompanyName     string `yaml:"company_name" env-default:"Demo Company Ltd."`
	DemoContactPerson   string `yaml:"contact_person" env-default:"John Demo"`
	DemoPhone           string `yaml:"phone"`
	DemoAddress         string `yaml:"address"`
	DemoLicenseDuration int    `yaml:"license_duration" env-default:"365"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
