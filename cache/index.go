package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"comrade/models"

	_ "modernc.org/sqlite"
)

// BlobIndex is the durable map from source URL to mirrored blob.
type BlobIndex interface {
	// Find returns nil, nil when url has no entry.
	Find(ctx context.Context, sourceURL string) (*models.BlobEntry, error)
	// Insert stores entry unless one already exists for its source URL, and
	// returns whichever entry the index holds afterwards.
	Insert(ctx context.Context, entry models.BlobEntry) (*models.BlobEntry, error)
}

// schemaVersion is the latest schema version. Bump when adding migrations.
const schemaVersion = 1

// SQLiteIndex is a BlobIndex backed by a single SQLite file.
type SQLiteIndex struct {
	db *sql.DB
}

var _ BlobIndex = (*SQLiteIndex)(nil)

// OpenSQLiteIndex opens (creating if needed) the index at path and brings its
// schema up to date.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob index: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS blobs (
		  source_url TEXT PRIMARY KEY,
		  blob_url   TEXT NOT NULL,
		  filename   TEXT NOT NULL,
		  size       INTEGER NOT NULL,
		  created_at INTEGER NOT NULL DEFAULT (unixepoch())
		);`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
	}

	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}
	return nil
}

func (s *SQLiteIndex) Find(ctx context.Context, sourceURL string) (*models.BlobEntry, error) {
	var e models.BlobEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT source_url, blob_url, filename, size FROM blobs WHERE source_url = ?`,
		sourceURL,
	).Scan(&e.SourceURL, &e.BlobURL, &e.Filename, &e.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blob %s: %w", sourceURL, err)
	}
	return &e, nil
}

func (s *SQLiteIndex) Insert(ctx context.Context, entry models.BlobEntry) (*models.BlobEntry, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (source_url, blob_url, filename, size) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_url) DO NOTHING`,
		entry.SourceURL, entry.BlobURL, entry.Filename, entry.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("insert blob %s: %w", entry.SourceURL, err)
	}

	stored, err := s.Find(ctx, entry.SourceURL)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("blob %s missing after insert", entry.SourceURL)
	}
	return stored, nil
}

// Count returns the number of indexed blobs.
func (s *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blobs: %w", err)
	}
	return n, nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
