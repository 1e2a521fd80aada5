package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the EmailCache interface. The
// email record is stored as a JSON blob keyed by message ID.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite email cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS email_cache (
			email_id TEXT PRIMARY KEY,
			record TEXT,
			fetched_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_email_cache_expires_at ON email_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached email record
func (c *SQLiteCache) Get(ctx context.Context, emailID string) (*core.EmailRecord, bool) {
	var encoded string
	err := c.db.QueryRowContext(ctx, `
		SELECT record
		FROM email_cache
		WHERE email_id = ? AND expires_at > datetime('now')
	`, emailID).Scan(&encoded)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query email cache",
				zap.Error(err),
				zap.String("email_id", emailID))
		}
		return nil, false
	}

	var record core.EmailRecord
	if err := json.Unmarshal([]byte(encoded), &record); err != nil {
		c.logger.Error("Failed to decode cached email record",
			zap.Error(err),
			zap.String("email_id", emailID))
		return nil, false
	}

	return &record, true
}

// Set stores an email record
func (c *SQLiteCache) Set(ctx context.Context, record *core.EmailRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("cannot cache email record without an ID")
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode email record: %w", err)
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO email_cache (email_id, record, fetched_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, record.ID, string(encoded), now.Format(time.RFC3339), now.Add(c.ttl).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes a cached record
func (c *SQLiteCache) Delete(ctx context.Context, emailID string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM email_cache
		WHERE email_id = ?
	`, emailID)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM email_cache
		WHERE expires_at <= datetime('now')
	`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
