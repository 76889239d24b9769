package wire

import (
	"context"
	"os"
	"sync"
	"time"

	"acs-console/cmd/config"
	"acs-console/internal/acs"
	"acs-console/internal/infra/cache"
	"acs-console/internal/infra/sql"
	sharedUsecases "acs-console/internal/shared_kernel/usecases"
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

var (
	databaseOnce sync.Once
	databaseORM  sql.ORM
)

// provideDatabase returns the process-wide ORM. Local environments run on an
// in-memory sqlite so the server starts without a postgres instance.
func provideDatabase(cfg config.AppConfig) sql.ORM {
	databaseOnce.Do(func() {
		env, ok := os.LookupEnv("ENV")
		if !ok {
			env = "production"
		}

		if env == "local" {
			orm, err := sql.NewMemoryORM("acs-console")
			if err != nil {
				panic(err)
			}
			databaseORM = orm
			return
		}

		orm, err := sql.NewPosgreORM(context.Background(), cfg.Postgresql.DSN)
		if err != nil {
			panic(err)
		}
		databaseORM = orm
	})

	return databaseORM
}

func provideACSClient(cfg config.AppConfig) *acs.HTTPClient {
	return acs.NewHTTPClient(acs.Config{
		BaseURL:       cfg.ACS.BaseURL,
		QueryTimeout:  cfg.ACS.QueryTimeout,
		SubmitTimeout: cfg.ACS.SubmitTimeout,
	})
}

var (
	cacheOnce     sync.Once
	cacheInstance cache.Cache
)

// provideCache picks redis when an address is configured, otherwise the
// in-process ristretto cache.
func provideCache(cfg config.AppConfig) cache.Cache {
	cacheOnce.Do(func() {
		if cfg.Cache.RedisAddr != "" {
			redisCache, err := cache.NewRedisCache(cache.RedisConfig{Addr: cfg.Cache.RedisAddr})
			if err != nil {
				panic(err)
			}
			cacheInstance = redisCache
			return
		}

		ristrettoCache, err := cache.New(cache.DefaultConfig())
		if err != nil {
			panic(err)
		}
		cacheInstance = ristrettoCache
	})

	return cacheInstance
}

func provideDeviceCacheTTL(cfg config.AppConfig) time.Duration {
	return cfg.Cache.DeviceTTL
}

func provideWebhookSecret(cfg config.AppConfig) string {
	return cfg.Webhook.Secret
}

func provideAuthService(cfg config.AppConfig, repository sharedUsecases.UserRepository) (*sharedUsecases.SimpleAuthService, error) {
	return sharedUsecases.NewAuthService(repository, sharedUsecases.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	})
}
