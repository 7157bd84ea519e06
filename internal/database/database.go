package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite3"
	BackendMongo    Backend = "mongodb"
)

// DSN is a parsed DATABASE_URL.
type DSN struct {
	Backend Backend
	// URL is the value as configured.
	URL string
	// DriverDSN is what database/sql (or the mongo client) is opened with.
	DriverDSN string
	// MigrateURL is the golang-migrate database URL, empty for backends without migrations.
	MigrateURL string
}

func ParseURL(raw string) (DSN, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DSN{Backend: BackendPostgres, URL: raw, DriverDSN: raw, MigrateURL: raw}, nil
	case strings.HasPrefix(raw, "sqlite3://"):
		path := strings.TrimPrefix(raw, "sqlite3://")
		if path == "" {
			return DSN{}, fmt.Errorf("sqlite3 url %q has no file path", raw)
		}
		return DSN{
			Backend:    BackendSQLite,
			URL:        raw,
			DriverDSN:  fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path),
			MigrateURL: raw,
		}, nil
	case strings.HasPrefix(raw, "mongodb://"), strings.HasPrefix(raw, "mongodb+srv://"):
		return DSN{Backend: BackendMongo, URL: raw, DriverDSN: raw}, nil
	default:
		return DSN{}, fmt.Errorf("unsupported database url %q: expected postgres://, sqlite3:// or mongodb://", raw)
	}
}

// IsSQL reports whether the backend is served through database/sql.
func (d DSN) IsSQL() bool {
	return d.Backend == BackendPostgres || d.Backend == BackendSQLite
}

func NewSQLConnection(dsn DSN) (*sql.DB, error) {
	switch dsn.Backend {
	case BackendPostgres:
		return NewPostgresConnection(dsn.DriverDSN)
	case BackendSQLite:
		return NewSQLiteConnection(dsn)
	default:
		return nil, fmt.Errorf("backend %s is not an SQL backend", dsn.Backend)
	}
}

func NewPostgresConnection(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping the database: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func NewSQLiteConnection(dsn DSN) (*sql.DB, error) {
	path := strings.TrimPrefix(dsn.URL, "sqlite3://")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn.DriverDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping the database: %w", err)
	}

	return db, nil
}

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}

	return client, nil
}
