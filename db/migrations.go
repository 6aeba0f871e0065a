package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/user/reactvid-cli/logger"
)

//go:embed all:sql/migrations
var migrationsFS embed.FS

// schemaVersion is one embedded NNN_name.sql file.
type schemaVersion struct {
	number int
	file   string
}

// migrate brings the kv schema up to date. The base table is created with
// IF NOT EXISTS; numbered files then run once each, in order, every one in
// its own transaction together with its bookkeeping row.
func migrate(conn *sql.DB) error {
	const bookkeeping = `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`
	for _, stmt := range []string{bookkeeping, CreateTablesSQL} {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("preparing schema: %w", err)
		}
	}

	var current int
	if err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	pending, err := pendingVersions(migrationsFS, current)
	if err != nil {
		return err
	}
	for _, v := range pending {
		if err := applyVersion(conn, v); err != nil {
			return err
		}
		logger.Debug("applied kv migration %s", v.file)
	}
	return nil
}

// pendingVersions lists files in fsys numbered above current, ascending.
// Files without a numeric prefix are ignored.
func pendingVersions(fsys fs.FS, current int) ([]schemaVersion, error) {
	names, err := fs.Glob(fsys, "sql/migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var out []schemaVersion
	for _, name := range names {
		base := name[strings.LastIndex(name, "/")+1:]
		prefix, _, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(prefix)
		if err != nil || n <= current {
			continue
		}
		out = append(out, schemaVersion{number: n, file: name})
	}
	slices.SortFunc(out, func(a, b schemaVersion) int { return a.number - b.number })
	return out, nil
}

func applyVersion(conn *sql.DB, v schemaVersion) (err error) {
	body, err := fs.ReadFile(migrationsFS, v.file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", v.file, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: %w", v.number, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(string(body)); err != nil {
		return fmt.Errorf("migration %s: %w", v.file, err)
	}
	if _, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, v.number); err != nil {
		return fmt.Errorf("recording migration %d: %w", v.number, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", v.number, err)
	}
	return nil
}
