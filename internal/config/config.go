// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек консоли
type Config struct {
	Env             string        `yaml:"env" env-default:"local"`
	CacheTTL        time.Duration `yaml:"cache_ttl" env-default:"1h"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	BackendAPI      `yaml:"backend_api"`
	AnalyticsAPI    `yaml:"analytics_api"`
	SessionCookie   `yaml:"session_cookie"`
	AMQP            `yaml:"amqp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8082"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// BackendAPI структура с адресом и таймаутом биллингового бэкенда
type BackendAPI struct {
	BackendBaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL"`
	TimeoutBackend time.Duration `yaml:"timeout" env-default:"10s"`
}

// AnalyticsAPI структура с адресом сервиса аналитики
type AnalyticsAPI struct {
	AnalyticsBaseURL string `yaml:"base_url" env:"ANALYTICS_BASE_URL"`
}

// SessionCookie структура для подписи и времени жизни cookie сессии
type SessionCookie struct {
	CookieSecretKey string        `yaml:"secret_key" env:"SESSION_SECRET_KEY"`
	SessionTTL      time.Duration `yaml:"session_ttl" env-default:"24h"`
}

// AMQP структура для публикации событий аудита, пустой URL отключает публикацию
type AMQP struct {
	AMQPURL    string `yaml:"url" env:"AMQP_URL"`
	Exchange   string `yaml:"exchange" env-default:"console.audit"`
	RoutingKey string `yaml:"routing_key" env-default:"audit.event"`
}

// MustLoad функция для загрузки конфига, путь к файлу берется из переменной CONFIG_PATH
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
