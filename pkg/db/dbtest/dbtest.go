// Package dbtest opens migrated in-memory SQLite databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/migrate"
)

// NewSQLite returns a client on a private in-memory database with every migration applied.
func NewSQLite(t testing.TB) *db.Client {
	t.Helper()
	ctx := context.Background()

	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Run(ctx, sqlDB, client.Dialect(), "", "up"); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
