package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/parley-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.HistoryCache = (*Cache)(nil)

// Cache is the SQLite-backed history cache.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache opens (or creates) the cache database. If path is empty,
// defaults to ~/.parley/data/cache.db.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".parley", "data", "cache.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	c := &Cache{
		db:   db,
		path: path,
	}

	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// migrate runs all pending migrations.
func (c *Cache) migrate(fsys embed.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Threads ====================

// PutThreads replaces the cached thread list, preserving the listing
// order it received.
func (c *Cache) PutThreads(ctx context.Context, threads []domain.Thread) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM threads"); err != nil {
		return fmt.Errorf("clearing threads: %w", err)
	}

	for i, thread := range threads {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO threads (id, title, last_response_id, created_at, updated_at, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, thread.ID, thread.Title, thread.LastResponseID,
			nullTime(thread.CreatedAt), nullTime(thread.UpdatedAt), i); err != nil {
			return fmt.Errorf("caching thread %s: %w", thread.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// PutThread inserts or updates one cached thread. New threads sort to
// the front of the listing.
func (c *Cache) PutThread(ctx context.Context, thread domain.Thread) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO threads (id, title, last_response_id, created_at, updated_at, position)
		VALUES (?, ?, ?, ?, ?, COALESCE((SELECT MIN(position) FROM threads), 1) - 1)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			last_response_id = excluded.last_response_id,
			updated_at = excluded.updated_at
	`, thread.ID, thread.Title, thread.LastResponseID,
		nullTime(thread.CreatedAt), nullTime(thread.UpdatedAt))

	if err != nil {
		return fmt.Errorf("caching thread %s: %w", thread.ID, err)
	}
	return nil
}

// Threads returns cached threads in listing order.
func (c *Cache) Threads(ctx context.Context) ([]domain.Thread, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, last_response_id, created_at, updated_at
		FROM threads
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing cached threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		var lastResponseID sql.NullString
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&thread.ID, &thread.Title, &lastResponseID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning thread: %w", err)
		}
		thread.LastResponseID = lastResponseID.String
		thread.CreatedAt = createdAt.Time
		thread.UpdatedAt = updatedAt.Time
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

// DeleteThread removes a thread and its cached messages.
func (c *Cache) DeleteThread(ctx context.Context, threadID string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM messages WHERE thread_id = ?",
		"DELETE FROM histories WHERE thread_id = ?",
		"DELETE FROM threads WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, threadID); err != nil {
			return fmt.Errorf("evicting thread %s: %w", threadID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Message history ====================

// PutHistory replaces the cached messages for a thread.
func (c *Cache) PutHistory(ctx context.Context, threadID string, messages []domain.Message) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE thread_id = ?", threadID); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	for i, msg := range messages {
		var sources any
		if len(msg.Sources) > 0 {
			data, err := json.Marshal(msg.Sources)
			if err != nil {
				return fmt.Errorf("marshalling sources: %w", err)
			}
			sources = string(data)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (thread_id, position, id, role, content, sources, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, threadID, i, msg.ID, string(msg.Role), msg.Content, sources, nullTime(msg.CreatedAt)); err != nil {
			return fmt.Errorf("caching message: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO histories (thread_id, fetched_at) VALUES (?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET fetched_at = excluded.fetched_at
	`, threadID, time.Now().UTC()); err != nil {
		return fmt.Errorf("marking history fetched: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// History returns cached messages for a thread, oldest first.
func (c *Cache) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	var fetched int
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM histories WHERE thread_id = ?", threadID)
	if err := row.Scan(&fetched); err != nil {
		return nil, fmt.Errorf("checking cached history: %w", err)
	}
	if fetched == 0 {
		return nil, fmt.Errorf("history for thread %s: %w", threadID, domain.ErrNotFound)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, role, content, sources, created_at
		FROM messages
		WHERE thread_id = ?
		ORDER BY position ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("reading cached history: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg := domain.Message{ThreadID: threadID}
		var id, role string
		var sources sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &role, &msg.Content, &sources, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.ID = id
		msg.Role = domain.Role(role)
		msg.CreatedAt = createdAt.Time
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &msg.Sources); err != nil {
				return nil, fmt.Errorf("unmarshalling sources: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// nullTime converts a zero time to NULL for storage.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
