package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the EmailCache interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL email cache
func NewMySQLCache(dsn string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS email_cache (
			email_id VARCHAR(128) PRIMARY KEY,
			record MEDIUMTEXT,
			fetched_at DATETIME,
			expires_at DATETIME,
			INDEX idx_email_cache_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
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
func (c *MySQLCache) Get(ctx context.Context, emailID string) (*core.EmailRecord, bool) {
	var encoded string
	err := c.db.QueryRowContext(ctx, `
		SELECT record
		FROM email_cache
		WHERE email_id = ? AND expires_at > NOW()
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
func (c *MySQLCache) Set(ctx context.Context, record *core.EmailRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("cannot cache email record without an ID")
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode email record: %w", err)
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO email_cache (email_id, record, fetched_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE record = VALUES(record),
			fetched_at = VALUES(fetched_at),
			expires_at = VALUES(expires_at)
	`, record.ID, string(encoded), now, now.Add(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes a cached record
func (c *MySQLCache) Delete(ctx context.Context, emailID string) error {
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
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM email_cache
		WHERE expires_at <= NOW()
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
func (c *MySQLCache) startCleanupTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL connection", zap.Error(err))
	}
}
