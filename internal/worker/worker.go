// Package worker runs the periodic dataset refresh for storage that cannot
// be watched for changes, such as R2.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Loader performs one dataset load.
type Loader interface {
	Load(ctx context.Context) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) error

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) error {
	return f(ctx)
}

// Config holds worker configuration
type Config struct {
	// WorkerID identifies this worker in logs. Generated when empty.
	WorkerID string

	// Interval between refreshes
	Interval time.Duration

	// Timeout bounds a single refresh
	Timeout time.Duration
}

// Refresher reloads the dataset on a fixed interval. A refresh still in
// flight when the next tick fires causes that tick to be skipped.
type Refresher struct {
	config Config
	loader Loader
	notify func(error)
	logger *slog.Logger
}

// NewRefresher creates a refresher. notify, if non-nil, receives the
// result of every refresh.
func NewRefresher(loader Loader, config Config, notify func(error), logger *slog.Logger) *Refresher {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("refresher-%s", uuid.New().String()[:8])
	}
	if config.Interval <= 0 {
		config.Interval = 15 * time.Minute
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Refresher{
		config: config,
		loader: loader,
		notify: notify,
		logger: logger.With("worker_id", config.WorkerID),
	}
}

// Start runs until ctx is done and returns ctx.Err().
func (r *Refresher) Start(ctx context.Context) error {
	r.logger.Info("dataset refresher starting",
		"interval", r.config.Interval,
		"timeout", r.config.Timeout,
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	sem := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dataset refresher shutting down")
			return ctx.Err()

		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				go func() {
					defer func() { <-sem }()
					r.refresh(ctx)
				}()
			default:
				r.logger.Warn("previous dataset refresh still running, skipping")
			}
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	err := r.loader.Load(refreshCtx)
	if err != nil {
		r.logger.Error("dataset refresh failed", "error", err, "duration", time.Since(start))
	} else {
		r.logger.Debug("dataset refreshed", "duration", time.Since(start))
	}

	if r.notify != nil {
		r.notify(err)
	}
}
