package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stvn101/carbonintelligence/core/logger"
)

const (
	DefaultCleanupInterval = time.Minute
	defaultShutdownTimeout = 30 * time.Second
)

// Sweeper is anything that can drop its expired entries. *Cache satisfies it, as
// do the apicache and calccache wrappers.
type Sweeper interface {
	Name() string
	Cleanup() int
}

// Janitor runs Cleanup on a Sweeper at a fixed interval.
type Janitor struct {
	mu     sync.RWMutex
	target Sweeper

	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	sweeps  atomic.Int64
	removed atomic.Int64
}

// JanitorStats reports sweep activity.
type JanitorStats struct {
	Sweeps    int64 // Completed sweeps
	Removed   int64 // Entries removed across all sweeps
	IsRunning bool
}

// JanitorOption configures a Janitor.
type JanitorOption func(*Janitor)

// WithCleanupInterval sets how often expired entries are swept.
// Set to 0 to disable the loop; Start then returns an error.
func WithCleanupInterval(interval time.Duration) JanitorOption {
	return func(j *Janitor) {
		j.cleanupInterval = interval
	}
}

// WithJanitorShutdownTimeout sets how long Stop waits for an in-flight sweep.
func WithJanitorShutdownTimeout(timeout time.Duration) JanitorOption {
	return func(j *Janitor) {
		if timeout > 0 {
			j.shutdownTimeout = timeout
		}
	}
}

// WithJanitorLogger sets the logger for lifecycle records.
func WithJanitorLogger(logger *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// NewJanitor creates a janitor for target. Call Start or Run to begin sweeping.
func NewJanitor(target Sweeper, opts ...JanitorOption) *Janitor {
	j := &Janitor{
		target:          target,
		cleanupInterval: DefaultCleanupInterval,
		shutdownTimeout: defaultShutdownTimeout,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Start sweeps until ctx is cancelled or Stop is called. It blocks; run it in a
// goroutine or use Run with an errgroup.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.cancel != nil {
		j.mu.Unlock()
		return ErrAlreadyStarted
	}
	if j.cleanupInterval <= 0 {
		j.mu.Unlock()
		return fmt.Errorf("%w: cleanup interval must be > 0, got %v", ErrInvalidConfig, j.cleanupInterval)
	}

	j.ctx, j.cancel = context.WithCancel(ctx)
	runCtx := j.ctx
	j.mu.Unlock()

	j.running.Store(true)
	defer j.running.Store(false)

	j.logger.InfoContext(runCtx, "cache janitor started",
		logger.CacheName(j.target.Name()),
		slog.Duration("cleanup_interval", j.cleanupInterval))

	ticker := time.NewTicker(j.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			j.logger.InfoContext(context.Background(), "cache janitor stopping",
				logger.CacheName(j.target.Name()))
			j.mu.Lock()
			if j.ctx == runCtx {
				j.cancel = nil
			}
			j.mu.Unlock()
			return runCtx.Err()
		case <-ticker.C:
			j.sweep()
		}
	}
}

// Stop cancels the loop and waits for an in-flight sweep, up to the shutdown timeout.
func (j *Janitor) Stop() error {
	j.mu.Lock()
	if j.cancel == nil {
		j.mu.Unlock()
		return ErrNotStarted
	}
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), j.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.InfoContext(context.Background(), "cache janitor stopped cleanly",
			logger.CacheName(j.target.Name()))
		return nil
	case <-ctx.Done():
		j.logger.WarnContext(context.Background(), "cache janitor shutdown timeout exceeded",
			logger.CacheName(j.target.Name()),
			slog.Duration("timeout", j.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, j.shutdownTimeout)
	}
}

// Run returns a function suitable for errgroup.Group.Go. It starts the loop and
// stops it gracefully when ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- j.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = j.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func (j *Janitor) sweep() {
	j.mu.RLock()
	if j.cancel == nil {
		j.mu.RUnlock()
		return
	}
	j.wg.Add(1)
	j.mu.RUnlock()
	defer j.wg.Done()

	removed := j.target.Cleanup()
	j.sweeps.Add(1)
	j.removed.Add(int64(removed))
}

// Stats returns sweep counters.
func (j *Janitor) Stats() JanitorStats {
	return JanitorStats{
		Sweeps:    j.sweeps.Load(),
		Removed:   j.removed.Load(),
		IsRunning: j.running.Load(),
	}
}

// Healthcheck reports an error when sweeping is configured but the loop is not running.
func (j *Janitor) Healthcheck(ctx context.Context) error {
	if j.cleanupInterval > 0 && !j.Stats().IsRunning {
		return fmt.Errorf("%w: %s", ErrJanitorNotRunning, j.target.Name())
	}
	return nil
}
