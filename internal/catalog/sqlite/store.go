// Package sqlite provides a SQLite-backed reference catalog.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists catalog partitions in SQLite
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

var (
	_ catalog.Source = (*Store)(nil)
	_ catalog.Writer = (*Store)(nil)
)

// Open opens the database at path and applies the embedded migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite db")
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return &Store{db: db, clock: clock.New()}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert replaces a partition and all of its entries in one transaction
func (s *Store) Upsert(ctx context.Context, partition catalog.Partition, entries []entities.ReferenceLibraryEntry) error {
	if partition.ID == "" {
		return errors.InvalidArgument("partition ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_partitions (id, label, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET label = excluded.label, updated_at = excluded.updated_at`,
		partition.ID, partition.Label, s.clock.Now().UTC().UnixMilli(),
	); err != nil {
		return errors.Wrapf(err, "failed to upsert partition %s", partition.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries WHERE partition_id = ?`, partition.ID); err != nil {
		return errors.Wrapf(err, "failed to clear partition %s", partition.ID)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO catalog_entries (partition_id, id, name, kind, skill, level, available_in, description)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare entry insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			partition.ID, e.ID, e.Name, string(e.Kind), string(e.Skill), e.Level, e.AvailableIn, e.Description,
		); err != nil {
			return errors.Wrapf(err, "failed to insert entry %s", e.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit partition")
	}
	return nil
}

// ListPartitions returns all stored partitions ordered by ID
func (s *Store) ListPartitions(ctx context.Context) ([]catalog.Partition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label FROM catalog_partitions ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list partitions")
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Partition
	for rows.Next() {
		var p catalog.Partition
		if err := rows.Scan(&p.ID, &p.Label); err != nil {
			return nil, errors.Wrap(err, "failed to scan partition")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate partitions")
	}
	return out, nil
}

// ScanPartition selects only the projected columns of a partition
func (s *Store) ScanPartition(ctx context.Context, partition catalog.Partition, projection catalog.Projection) ([]entities.IndexEntry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_partitions WHERE id = ?`, partition.ID).Scan(&exists)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check partition %s", partition.ID)
	}
	if exists == 0 {
		return nil, errors.NotFoundf("partition %s not found", partition.ID)
	}

	columns := []string{"id", "name", "kind"}
	if projection.Skill {
		columns = append(columns, "skill")
	}
	if projection.Level {
		columns = append(columns, "level")
	}
	if projection.AvailableIn {
		columns = append(columns, "available_in")
	}

	// column names come from the fixed list above
	query := "SELECT " + strings.Join(columns, ", ") + " FROM catalog_entries WHERE partition_id = ? ORDER BY name, id" // #nosec G202
	rows, err := s.db.QueryContext(ctx, query, partition.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan partition %s", partition.ID)
	}
	defer func() { _ = rows.Close() }()

	var out []entities.IndexEntry
	for rows.Next() {
		e := entities.IndexEntry{Partition: partition.ID}
		dest := []any{&e.ID, &e.Name, &e.Kind}
		if projection.Skill {
			dest = append(dest, &e.Skill)
		}
		if projection.Level {
			dest = append(dest, &e.Level)
		}
		if projection.AvailableIn {
			dest = append(dest, &e.AvailableIn)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "failed to read entry in partition %s", partition.ID)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate partition %s", partition.ID)
	}
	return out, nil
}

// FetchFullEntry returns one entry with its description
func (s *Store) FetchFullEntry(ctx context.Context, partition catalog.Partition, id string) (*entities.ReferenceLibraryEntry, error) {
	e := &entities.ReferenceLibraryEntry{}
	e.Partition = partition.ID

	err := s.db.QueryRowContext(ctx, `
SELECT id, name, kind, skill, level, available_in, description
FROM catalog_entries WHERE partition_id = ? AND id = ?`, partition.ID, id,
	).Scan(&e.ID, &e.Name, &e.Kind, &e.Skill, &e.Level, &e.AvailableIn, &e.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("entry %s not found in partition %s", id, partition.ID)
		}
		return nil, errors.Wrapf(err, "failed to fetch entry %s", id)
	}
	return e, nil
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return errors.Wrap(err, "failed to ensure migration table")
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		var applied int
		if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, file).Scan(&applied); err != nil {
			return errors.Wrapf(err, "failed to check migration %s", file)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", file)
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrap(err, "failed to begin migration")
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %s", file)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %s", file)
		}
	}
	return nil
}
