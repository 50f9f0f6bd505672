package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// NewDB opens a libsql database. Remote URLs get the auth token appended;
// local "file:" URLs are opened as they are.
func NewDB(databaseURL, authToken string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	connStr := databaseURL
	remote := !strings.HasPrefix(databaseURL, "file:")
	if remote && authToken != "" {
		connStr += "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if remote {
		// Turso closes idle Hrana streams, so stale pooled connections fail with
		// "stream not found".
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(0)
	} else {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "stream not found")
}

// withRetry runs fn again when it fails with a stream error, up to maxRetries times.
func withRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil || !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}

	return result, err
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
