package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/infrastructure/database"
	"github.com/evanor/arexxd/internal/sensor"
)

// sqliteWriteTimeout bounds a single insert so a locked database cannot
// stall the dispatch loop.
const sqliteWriteTimeout = 5 * time.Second

// createReadingsTable is the schema existing dashboards query against;
// column names are part of the compatibility surface.
const createReadingsTable = `
CREATE TABLE IF NOT EXISTS readings (
	id           INTEGER PRIMARY KEY,
	timestamp    INTEGER,
	location     TEXT,
	sensor_id    INTEGER,
	sensor_type  TEXT,
	sensor_value REAL,
	unit         TEXT
);`

const insertReading = `
INSERT INTO readings (timestamp, location, sensor_id, sensor_type, sensor_value, unit)
VALUES (?, ?, ?, ?, ?, ?);`

// SQLiteSink appends one row per reading to a local SQLite database.
//
// The database is opened lazily and the readings table created if
// absent. A failed open or insert marks the sink not ready; the open is
// retried on the next delivery.
type SQLiteSink struct {
	cfg config.SQLiteConfig
	log Logger

	mu    sync.Mutex
	db    *database.DB
	ready bool
}

// NewSQLiteSink creates a SQLite sink. The initial open is attempted
// immediately; failure is logged and retried on the first delivery.
func NewSQLiteSink(cfg config.SQLiteConfig, log Logger) *SQLiteSink {
	sq := &SQLiteSink{
		cfg: cfg,
		log: log,
	}
	sq.mu.Lock()
	if err := sq.openLocked(); err != nil {
		log.Error("sqlite sink not ready", "filename", cfg.Filename, "error", err)
	}
	sq.mu.Unlock()
	return sq
}

// Name implements Sink.
func (sq *SQLiteSink) Name() string { return "sqlite" }

// openLocked opens the database and ensures the schema. Caller holds sq.mu.
func (sq *SQLiteSink) openLocked() error {
	db, err := database.Open(database.Config{
		Path:        sq.cfg.Filename,
		WALMode:     sq.cfg.WALMode,
		BusyTimeout: sq.cfg.BusyTimeout,
	})
	if err != nil {
		sq.ready = false
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteWriteTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, createReadingsTable); err != nil {
		db.Close()
		sq.ready = false
		return fmt.Errorf("%w: creating readings table: %w", ErrNotReady, err)
	}

	sq.db = db
	sq.ready = true
	return nil
}

// Deliver implements Sink.
func (sq *SQLiteSink) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	if !sq.ready {
		if err := sq.openLocked(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteWriteTimeout)
	defer cancel()

	_, err := sq.db.ExecContext(ctx, insertReading,
		r.Timestamp,
		s.Name,
		s.DisplayID,
		s.Type,
		s.Value(r),
		s.Unit,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}

// Close releases the database connection.
func (sq *SQLiteSink) Close() error {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	sq.ready = false
	if sq.db == nil {
		return nil
	}
	err := sq.db.Close()
	sq.db = nil
	return err
}
