package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded up migration in lexical order. The
// statements are idempotent, so running it on an up-to-date schema is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := upMigrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := apply(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// MigrateNamed applies the single up migration whose file name contains name.
func MigrateNamed(ctx context.Context, db *sql.DB, name string) error {
	names, err := upMigrations()
	if err != nil {
		return err
	}

	pattern := regexp.MustCompile(`^.*` + regexp.QuoteMeta(name) + `.*\.up\.sql$`)
	for _, n := range names {
		if pattern.MatchString(n) {
			return apply(ctx, db, n)
		}
	}
	return fmt.Errorf("migration file not found: %s", name)
}

func upMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func apply(ctx context.Context, db *sql.DB, name string) error {
	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}
