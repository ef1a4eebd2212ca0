//go:build integration
// +build integration

// Package testdb starts a throwaway, fully migrated Postgres for integration tests.
package testdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/alfurqan/portal/storage/database"
)

// PrepareDB returns a handle to a fresh database; the container is removed when t ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("alfurqan"),
		postgres.WithUsername("alfurqan"),
		postgres.WithPassword("alfurqan"),
	)
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = pg.Terminate(ctx)
	})

	uri, err := pg.ConnectionString(ctx, "sslmode=disable", "timezone=utc")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	db, err := sqlx.Open("postgres", uri)
	if err != nil {
		t.Fatalf("opening postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = waitReady(ctx, db); err != nil {
		t.Fatal(err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func waitReady(ctx context.Context, db *sqlx.DB) error {
	dead := time.Now().Add(20 * time.Second)
	for time.Now().Before(dead) {
		if err := db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return errors.New("db not ready")
}
