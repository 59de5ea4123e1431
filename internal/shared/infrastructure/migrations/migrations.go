// Package migrations applies the embedded schema for both database drivers.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

// RunSQLiteMigrations executes all SQLite migrations in order.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	files, err := listUpFiles(sqliteFS, "sqlite")
	if err != nil {
		return err
	}

	for _, file := range files {
		migration, err := sqliteFS.ReadFile("sqlite/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		// CREATE TABLE IF NOT EXISTS keeps re-runs idempotent.
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}

// RunPostgresMigrations executes all PostgreSQL migrations in order.
func RunPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := listUpFiles(postgresFS, "postgres")
	if err != nil {
		return err
	}

	for _, file := range files {
		migration, err := postgresFS.ReadFile("postgres/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}

func listUpFiles(fsys embed.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)
	return upFiles, nil
}
