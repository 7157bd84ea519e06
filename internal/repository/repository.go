package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
	Dialect       string
}

// NewRepository wraps db with a goqu database for dialect ("postgres" or "sqlite3").
func NewRepository(db *sql.DB, dialect string) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(dialect, db),
		Dialect:       dialect,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.DB.Close()
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
