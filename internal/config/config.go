package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent - идентификатор клиента для OSM сервисов, если OSM_USER_AGENT не задан
const DefaultUserAgent = "LaundromatFinder/1.0 (+https://example.com)"

type Config struct {
	Server    ServerConfig
	OSM       OSMConfig
	Nominatim NominatimConfig
	Overpass  OverpassConfig
	Redis     RedisConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

// OSMConfig - общие параметры обращения к сервисам OpenStreetMap
type OSMConfig struct {
	UserAgent string
}

type NominatimConfig struct {
	BaseURL string
	Timeout time.Duration
}

type OverpassConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	SearchesPerSecond float64
}

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		OSM: OSMConfig{
			UserAgent: strings.TrimSpace(v.GetString("OSM_USER_AGENT")),
		},
		Nominatim: NominatimConfig{
			BaseURL: strings.TrimRight(v.GetString("NOMINATIM_BASE_URL"), "/"),
			Timeout: v.GetDuration("NOMINATIM_TIMEOUT"),
		},
		Overpass: OverpassConfig{
			URL:     v.GetString("OVERPASS_URL"),
			Timeout: v.GetDuration("OVERPASS_TIMEOUT"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			SearchesPerSecond: v.GetFloat64("WORKER_SEARCHES_PER_SECOND"),
		},
	}

	// Пустое значение в окружении перекрывает default, поэтому проверяем ещё раз
	if cfg.OSM.UserAgent == "" {
		cfg.OSM.UserAgent = DefaultUserAgent
	}
	if cfg.Worker.SearchesPerSecond <= 0 {
		cfg.Worker.SearchesPerSecond = 1
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("OSM_USER_AGENT", DefaultUserAgent)
	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_TIMEOUT", 15*time.Second)
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OVERPASS_TIMEOUT", 45*time.Second)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "laundromat-search-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_SEARCHES_PER_SECOND", 1.0)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
