package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/service"
	"github.com/real-social-media/pillar/pkg/config"
	"github.com/real-social-media/pillar/pkg/logging"
)

// Sweeper converges expired posts to DELETING in the background.
// Readers already filter expired posts out at query time, so the
// sweeper only has to catch up eventually, not promptly.
type Sweeper struct {
	store    service.PostStore
	interval time.Duration
	batch    int
	logger   *zap.Logger
}

// New creates a new expiry sweeper
func New(cfg *config.SweeperConfig, store service.PostStore) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: cfg.Interval,
		batch:    cfg.BatchSize,
		logger:   logging.WithComponent("sweeper"),
	}
}

// Run sweeps on the configured interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Starting expiry sweeper",
		zap.Duration("interval", s.interval),
		zap.Int("batchSize", s.batch))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("Sweep pass failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce transitions one batch of expired posts to DELETING. Each
// post cascades to its media in the same transaction.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	now := time.Now().UTC()

	posts, err := s.store.ListExpiredPosts(ctx, now, s.batch)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	swept := 0
	for _, p := range posts {
		if err := s.store.MarkPostDeleting(ctx, p.ID); err != nil {
			s.logger.Error("Failed to sweep expired post",
				zap.String("postId", p.ID), zap.Error(err))
			continue
		}
		swept++
	}

	s.logger.Info("Swept expired posts",
		zap.Int("found", len(posts)),
		zap.Int("swept", swept))
	return nil
}
