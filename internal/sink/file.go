package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/evanor/arexxd/internal/sensor"
)

// filePermissions is the permission mode for the output file.
const filePermissions = 0644

// FileSink appends one CSV-style line per reading to a flat file.
//
// Line format:
//
//	displayId,rawValue,engineeringValue unit,timestamp,signalOrDash,name,type\n
//
// The file is opened lazily: a failed open marks the sink not ready and
// the open is retried on the next delivery. The handle stays open
// across deliveries and is closed at process teardown. A failed write
// also drops readiness so the file is reopened, which recovers from
// rotation or deletion underneath the daemon.
type FileSink struct {
	filename string
	log      Logger

	mu    sync.Mutex
	f     *os.File
	ready bool
}

// NewFileSink creates a file sink for the given path. The initial open
// is attempted immediately; failure is logged and retried on the first
// delivery.
func NewFileSink(filename string, log Logger) *FileSink {
	fs := &FileSink{
		filename: filename,
		log:      log,
	}
	fs.mu.Lock()
	if err := fs.openLocked(); err != nil {
		log.Error("file sink not ready", "filename", filename, "error", err)
	}
	fs.mu.Unlock()
	return fs
}

// Name implements Sink.
func (fs *FileSink) Name() string { return "file" }

// openLocked opens the output file for appending. Caller holds fs.mu.
func (fs *FileSink) openLocked() error {
	f, err := os.OpenFile(fs.filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermissions)
	if err != nil {
		fs.ready = false
		return fmt.Errorf("%w: opening %s: %w", ErrNotReady, fs.filename, err)
	}
	fs.f = f
	fs.ready = true
	return nil
}

// Deliver implements Sink.
func (fs *FileSink) Deliver(r sensor.Reading, s *sensor.Sensor) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.ready {
		if err := fs.openLocked(); err != nil {
			return err
		}
	}

	line := fmt.Sprintf("%d,%d,%f %s,%d,%s,%s,%s\n",
		s.DisplayID,
		r.RawValue,
		s.Value(r),
		s.Unit,
		r.Timestamp,
		signalOrDash(r),
		s.Name,
		s.Type,
	)

	if _, err := fs.f.WriteString(line); err != nil {
		// Drop readiness so the next delivery reopens the file.
		fs.f.Close()
		fs.f = nil
		fs.ready = false
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}

// Close releases the file handle.
func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.ready = false
	if fs.f == nil {
		return nil
	}
	err := fs.f.Close()
	fs.f = nil
	return err
}
