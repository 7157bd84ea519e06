package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"assettracker/internal/database"
	"assettracker/internal/database/migration"
	"assettracker/internal/repository"

	"github.com/bitcomplete/sqltestutil"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// NewPostgres starts a disposable postgres container and returns a migrated
// repository on it. It needs a docker compatible daemon (DOCKER_HOST) and runs
// only when POSTGRES_TEST is set.
func NewPostgres(t *testing.T) *repository.Repository {
	t.Helper()
	if os.Getenv("POSTGRES_TEST") == "" {
		t.Skip("POSTGRES_TEST not set")
	}

	ctx := context.Background()
	startCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pg, err := sqltestutil.StartPostgresContainer(startCtx, "16")
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Shutdown(ctx); err != nil {
			t.Errorf("shutdown postgres container: %v", err)
		}
	})

	dsn, err := database.ParseURL(pg.ConnectionString())
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}

	db, err := waitForPostgres(startCtx, dsn)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migration.Migrate(dsn, "", false, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return repository.NewRepository(db, string(dsn.Backend))
}

func waitForPostgres(ctx context.Context, dsn database.DSN) (*sql.DB, error) {
	for {
		db, err := database.NewSQLConnection(dsn)
		if err == nil {
			return db, nil
		}

		var pqErr *pq.Error
		var netErr net.Error
		retryable := (errors.As(err, &pqErr) && pqErr.Code == "57P03") || errors.As(err, &netErr)
		if !retryable || ctx.Err() != nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(200 * time.Millisecond):
		}
	}
}
