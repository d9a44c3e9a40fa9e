package process

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status represents the current state of a supervised task.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusFailed  Status = "failed"
)

// TaskFunc is a long-running background task. It should run until the
// context is cancelled and return nil on clean shutdown. A non-nil
// error (or an early return) counts as a failure and may trigger a
// restart depending on configuration.
type TaskFunc func(ctx context.Context) error

// Config holds configuration for a supervised task.
type Config struct {
	// Name is a human-readable identifier for logging.
	Name string

	// Task is the function to supervise.
	Task TaskFunc

	// RestartOnFailure enables automatic restart when the task returns
	// an error before the context is cancelled.
	RestartOnFailure bool

	// RestartDelay is the time to wait before restarting after a failure.
	RestartDelay time.Duration

	// MaxRestartAttempts limits restart attempts. 0 means unlimited.
	MaxRestartAttempts int
}

// Logger defines the logging interface for the supervisor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner supervises a single background task: it owns the goroutine the
// task runs on, restarts it on failure within the configured budget,
// and provides an explicit stop path. This replaces fire-and-forget
// daemon goroutines with a supervised lifecycle.
type Runner struct {
	config Config
	logger Logger

	mu           sync.RWMutex
	status       Status
	restartCount int
	lastError    error
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewRunner creates a new supervisor for the given task configuration.
func NewRunner(cfg Config) *Runner {
	if cfg.RestartDelay == 0 {
		cfg.RestartDelay = 5 * time.Second
	}

	return &Runner{
		config: cfg,
		logger: noopLogger{},
		status: StatusStopped,
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// Start launches the task and begins supervising it. Returns an error
// if the runner is already running. The task stops when ctx is
// cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.status == StatusRunning {
		r.mu.Unlock()
		return fmt.Errorf("task %s is already running", r.config.Name)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.status = StatusRunning
	r.restartCount = 0
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.supervise(taskCtx)

	return nil
}

// supervise runs the task, restarting it on failure within the budget.
func (r *Runner) supervise(ctx context.Context) {
	defer close(r.done)

	for {
		r.logger.Debug("starting task", "name", r.config.Name)

		err := r.runOnce(ctx)

		if ctx.Err() != nil {
			// Shutdown requested; the task's own error is irrelevant.
			r.setStatus(StatusStopped, nil)
			r.logger.Info("task stopped", "name", r.config.Name)
			return
		}

		if err == nil {
			// Task completed on its own without a shutdown request.
			r.setStatus(StatusStopped, nil)
			r.logger.Info("task finished", "name", r.config.Name)
			return
		}

		r.logger.Error("task failed", "name", r.config.Name, "error", err)

		if !r.config.RestartOnFailure {
			r.setStatus(StatusFailed, err)
			return
		}

		r.mu.Lock()
		r.restartCount++
		attempts := r.restartCount
		r.mu.Unlock()

		if r.config.MaxRestartAttempts > 0 && attempts > r.config.MaxRestartAttempts {
			r.logger.Error("task exceeded restart budget",
				"name", r.config.Name,
				"attempts", attempts-1,
			)
			r.setStatus(StatusFailed, err)
			return
		}

		r.logger.Warn("restarting task",
			"name", r.config.Name,
			"attempt", attempts,
			"delay", r.config.RestartDelay,
		)

		select {
		case <-ctx.Done():
			r.setStatus(StatusStopped, nil)
			return
		case <-time.After(r.config.RestartDelay):
		}
	}
}

// runOnce executes the task a single time, converting panics to errors
// so a panicking task does not take down the process.
func (r *Runner) runOnce(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %s panicked: %v", r.config.Name, rec)
		}
	}()
	return r.config.Task(ctx)
}

// Stop cancels the task and waits for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

// Status returns the current task status.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// LastError returns the most recent task failure, if any.
func (r *Runner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

// setStatus updates status and last error under lock.
func (r *Runner) setStatus(s Status, err error) {
	r.mu.Lock()
	r.status = s
	if err != nil {
		r.lastError = err
	}
	r.mu.Unlock()
}
