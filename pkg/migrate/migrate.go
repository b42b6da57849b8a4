package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/migrate/migrations"
)

// DefaultDir is the on-disk location of the SQL migrations, used by create and validate.
const DefaultDir = "pkg/migrate/migrations"

// embeddedDir is the root of migrations.FS.
const embeddedDir = "."

// Run executes a standard goose command that requires a DB connection.
// An empty dir runs the migrations embedded in the binary.
func Run(ctx context.Context, db *sql.DB, driver string, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(driver, dir)
	if err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver string, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	dir, err := prepare(driver, dir)
	if err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

func prepare(driver, dir string) (string, error) {
	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		return embeddedDir, nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}

func gooseDialect(driver string) string {
	if strings.EqualFold(driver, config.DriverSQLite) {
		return "sqlite3"
	}
	return "postgres"
}
