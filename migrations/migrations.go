// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var files embed.FS

// Up применяет все миграции к базе, на которую смотрит пул
func Up(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	// Не закрываем db: соединения принадлежат пулу
	db := stdlib.OpenDBFromPool(pool)

	goose.SetLogger(zap.NewStdLog(logger))
	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
