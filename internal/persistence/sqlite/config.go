package sqlite

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds SQLite connection settings.
type Config struct {
	// Path is the database file. ":memory:" is rejected because every pooled
	// connection would see its own empty database.
	Path string

	// BusyTimeout sets how long a writer waits for the database lock.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns production settings for the database at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

// TestConfig returns settings for a throwaway database file in tests.
func TestConfig(path string) Config {
	return Config{
		Path:         path,
		BusyTimeout:  time.Second,
		JournalMode:  "DELETE",
		Synchronous:  "OFF",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
}

// Validate reports configuration errors before a connection is attempted.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("sqlite: database path is required")
	}
	if c.Path == ":memory:" {
		return fmt.Errorf("sqlite: in-memory databases are not supported with a connection pool")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout must not be negative")
	}
	switch strings.ToUpper(c.JournalMode) {
	case "", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("sqlite: invalid journal mode %q", c.JournalMode)
	}
	switch strings.ToUpper(c.Synchronous) {
	case "", "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("sqlite: invalid synchronous mode %q", c.Synchronous)
	}
	return nil
}

// DSN renders the driver connection string. PRAGMAs travel in the DSN so the
// driver applies them to every pooled connection, and write transactions take
// the lock up front.
func (c Config) DSN() string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if c.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	}
	if c.JournalMode != "" {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", strings.ToUpper(c.JournalMode)))
	}
	if c.Synchronous != "" {
		q.Add("_pragma", fmt.Sprintf("synchronous(%s)", strings.ToUpper(c.Synchronous)))
	}
	q.Set("_txlock", "immediate")
	return "file:" + c.Path + "?" + q.Encode()
}
