package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Webhook     WebhookConfig
	Redis       RedisConfig
	Publisher   PublisherConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path string
}

type WebhookConfig struct {
	Secret string
	Topic  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PublisherConfig struct {
	Endpoint  string
	Secret    string
	TimeoutMS int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("stocksync_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("stocksync_port", 8080)
	v.SetDefault("stocksync_db_path", "data/stocksync")
	v.SetDefault("stocksync_webhook_secret", "")
	v.SetDefault("stocksync_topic", "inventory_levels/update")
	v.SetDefault("stocksync_redis_addr", "")
	v.SetDefault("stocksync_redis_password", "")
	v.SetDefault("stocksync_redis_db", 0)
	v.SetDefault("stocksync_publish_endpoint", "")
	v.SetDefault("stocksync_publish_secret", "")
	v.SetDefault("stocksync_publish_timeout_ms", 10000)

	env := resolveEnvironment(v)
	port := v.GetInt("stocksync_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid STOCKSYNC_PORT: %d", port)
	}

	topic := strings.TrimSpace(v.GetString("stocksync_topic"))
	if topic == "" {
		topic = "inventory_levels/update"
	}

	publishTimeout := v.GetInt("stocksync_publish_timeout_ms")
	if publishTimeout <= 0 {
		publishTimeout = 10000
	}
	if publishTimeout > 60000 {
		publishTimeout = 60000
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("stocksync_db_path")),
		},
		Webhook: WebhookConfig{
			Secret: strings.TrimSpace(v.GetString("stocksync_webhook_secret")),
			Topic:  topic,
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("stocksync_redis_addr")),
			Password: v.GetString("stocksync_redis_password"),
			DB:       v.GetInt("stocksync_redis_db"),
		},
		Publisher: PublisherConfig{
			Endpoint:  strings.TrimSpace(v.GetString("stocksync_publish_endpoint")),
			Secret:    strings.TrimSpace(v.GetString("stocksync_publish_secret")),
			TimeoutMS: publishTimeout,
		},
	}

	if strings.TrimSpace(cfg.Database.Path) == "" {
		cfg.Database.Path = "data/stocksync"
	}
	if !cfg.IsLocalDevelopment() && cfg.Webhook.Secret == "" {
		return Config{}, fmt.Errorf("STOCKSYNC_WEBHOOK_SECRET is required outside local/dev environments")
	}
	if cfg.IsLocalDevelopment() && cfg.Webhook.Secret == "" {
		cfg.Webhook.Secret = "stocksync-local-dev"
	}
	if cfg.Publisher.Endpoint != "" && cfg.Publisher.Secret == "" {
		return Config{}, fmt.Errorf("STOCKSYNC_PUBLISH_SECRET is required when STOCKSYNC_PUBLISH_ENDPOINT is set")
	}

	return cfg, nil
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

// PublishTimeout returns the outbound notification timeout.
func (c Config) PublishTimeout() time.Duration {
	return time.Duration(c.Publisher.TimeoutMS) * time.Millisecond
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"stocksync_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
