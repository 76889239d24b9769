package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("acs_console")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel: viper.GetString("general.log_level"),
			},
			Server: ServerConfig{
				Addr:           viper.GetString("server.addr"),
				AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
			},
			ACS: ACSConfig{
				BaseURL:       viper.GetString("acs.base_url"),
				QueryTimeout:  viper.GetDuration("acs.query_timeout"),
				SubmitTimeout: viper.GetDuration("acs.submit_timeout"),
			},
			Webhook: WebhookConfig{
				Secret: viper.GetString("webhook.secret"),
			},
			Postgresql: PostgresqlConfig{
				DSN: viper.GetString("database.dsn"),
			},
			Cache: CacheConfig{
				RedisAddr: viper.GetString("cache.redis_addr"),
				DeviceTTL: viper.GetDuration("cache.device_ttl"),
			},
			Auth: AuthConfig{
				JWTSecret:    viper.GetString("auth.jwt_secret"),
				TokenTTL:     viper.GetDuration("auth.token_ttl"),
				RootPassword: viper.GetString("auth.root_password"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General    GeneralConfig
	Server     ServerConfig
	ACS        ACSConfig
	Webhook    WebhookConfig
	Postgresql PostgresqlConfig
	Cache      CacheConfig
	Auth       AuthConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

type ACSConfig struct {
	BaseURL       string
	QueryTimeout  time.Duration
	SubmitTimeout time.Duration
}

type WebhookConfig struct {
	Secret string
}

type PostgresqlConfig struct {
	DSN string
}

type CacheConfig struct {
	// RedisAddr switches the device cache from in-process to redis when set.
	RedisAddr string
	DeviceTTL time.Duration
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	RootPassword string
}
