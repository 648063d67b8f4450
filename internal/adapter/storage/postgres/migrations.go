package postgres

import (
	"fmt"

	"upbolis-market/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded goose migrations against the pool's
// database.
func RunMigrations(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing migration db handle: %w", err)
	}
	return nil
}
