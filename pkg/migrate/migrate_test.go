package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
)

func newSQLiteClient(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRunEmbeddedUpCreatesTables(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	require.NoError(t, Run(ctx, sqlDB, client.Dialect(), "", "up"))

	for _, table := range []string{"products", "product_images", "cart_items", "orders", "order_lines", "branding_assets"} {
		var count int
		err := sqlDB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count, "table %s missing", table)
	}

	require.NoError(t, Run(ctx, sqlDB, client.Dialect(), "", "down"))
	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'branding_assets'").Scan(&count))
	require.Zero(t, count)
}

func TestRunRequiresDB(t *testing.T) {
	err := Run(context.Background(), nil, config.DriverPostgres, "", "up")
	require.Error(t, err)
}

func TestGooseDialect(t *testing.T) {
	require.Equal(t, "sqlite3", gooseDialect("SQLite"))
	require.Equal(t, "postgres", gooseDialect(config.DriverPostgres))
	require.Equal(t, "postgres", gooseDialect(""))
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Order Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_order_notes.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "-- +goose Up")
	require.Contains(t, string(data), "-- +goose Down")

	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))

	require.Error(t, ValidateDir(t.TempDir()))
}
