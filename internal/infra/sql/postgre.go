package sql

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPosgreORM opens a pgx connection pool and hands it to gorm, so pool
// sizing and health checks stay under pgx control.
func NewPosgreORM(ctx context.Context, dsn string) (*DB, error) {
	if pass, ok := os.LookupEnv("ACS_CONSOLE_POSTGRES_PASSWORD"); ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("opening gorm over pgx pool: %w", err)
	}

	return &DB{
		DB:                   gormDB,
		autoMigrationEnabled: true,
	}, nil
}
