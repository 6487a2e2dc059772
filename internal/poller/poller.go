package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/archtools/modelsync/internal/adapter"
	"github.com/archtools/modelsync/internal/logger"
	"github.com/archtools/modelsync/internal/providers/tandem"
	"github.com/archtools/modelsync/internal/store"
)

const (
	DEFAULT_POLL_INTERVAL    = 10 * time.Minute
	DEFAULT_WORKER_POOL_SIZE = 4
)

// Config holds the poller configuration
type Config struct {
	PollInterval   time.Duration
	WorkerPoolSize int
}

// Poller periodically lists projects visible on the external platform and
// registers the names that are not persisted yet, so pushed trees can be
// matched against platform projects later.
type Poller struct {
	config Config
	store  store.Store
	client tandem.Client
	clock  adapter.Clock
}

// New creates a platform poller
func New(cfg Config, store store.Store, client tandem.Client, clock adapter.Clock) *Poller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DEFAULT_POLL_INTERVAL
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	return &Poller{
		config: cfg,
		store:  store,
		client: client,
		clock:  clock,
	}
}

// Run polls on a fixed interval until the context is cancelled. Sweeps
// never overlap: a slow sweep simply delays the next one.
func (p *Poller) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting platform poller",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("worker_pool_size", p.config.WorkerPoolSize))

	for {
		if err := p.Sweep(ctx); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("platform sweep failed: %w", err))
		}

		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Stopping platform poller")
			return ctx.Err()
		case <-p.clock.After(p.config.PollInterval):
		}
	}
}

// Sweep performs one poll cycle: list platform projects, then register the
// unknown ones concurrently.
func (p *Poller) Sweep(ctx context.Context) error {
	start := p.clock.Now()

	projects, err := p.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list platform projects: %w", err)
	}

	pool := pond.NewPool(p.config.WorkerPoolSize, pond.WithContext(ctx))

	var created atomic.Int64
	for _, project := range projects {
		if project.Name == "" {
			continue
		}

		pool.Submit(func() {
			ok, err := p.store.EnsurePlatformProject(ctx, store.PlatformProjectInput{
				Name:        project.Name,
				Description: project.Description,
				PlatformID:  project.ID,
				Now:         p.clock.Now(),
			})
			if err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to register platform project: %w", err),
					zap.String("project", project.Name),
					zap.String("platform_id", project.ID))
				return
			}
			if ok {
				created.Add(1)
				logger.InfoCtx(ctx, "Registered platform project",
					zap.String("project", project.Name),
					zap.String("platform_id", project.ID))
			}
		})
	}

	pool.StopAndWait()

	logger.InfoCtx(ctx, "Platform sweep complete",
		zap.Int("listed", len(projects)),
		zap.Int64("created", created.Load()),
		zap.Duration("duration", p.clock.Since(start)))

	return nil
}
