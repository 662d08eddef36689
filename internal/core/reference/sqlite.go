package reference

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure Go sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS reference_names (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	active     INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteSource keeps reference names in a local sqlite file.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// OpenSQLiteSource opens or creates the database and its table.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reference_names: %w", err)
	}
	return &SQLiteSource{db: db, path: path}, nil
}

func (s *SQLiteSource) GetSourceName() string { return "sqlite:" + s.path }

func (s *SQLiteSource) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM reference_names WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan reference name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Insert adds names, skipping ones already present.
func (s *SQLiteSource) Insert(ctx context.Context, names ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO reference_names (name) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range names {
		if _, err := stmt.ExecContext(ctx, n); err != nil {
			return fmt.Errorf("failed to insert %q: %w", n, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of rows, active or not.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_names`).Scan(&n)
	return n, err
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
