package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SummaryScheduler rebuilds the user monthly summary on a cron schedule.
type SummaryScheduler struct {
	cfg    *contract.Config
	mgr    contract.CacheManager
	logger *zap.Logger
	cron   *cron.Cron
	run    ExecutorFunc
}

// NewSummaryScheduler validates the schedule and prepares the scheduler.
// A nil logger falls back to the zap production logger.
func NewSummaryScheduler(cfg *contract.Config, mgr contract.CacheManager, logger *zap.Logger) (*SummaryScheduler, error) {
	if logger == nil {
		var err error
		if logger, err = zap.NewProduction(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	s := &SummaryScheduler{
		cfg:    cfg,
		mgr:    mgr,
		logger: logger,
		cron:   cron.New(),
		run:    ExecuteSummary,
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// tick runs one rebuild. A failed build is logged and the schedule continues.
func (s *SummaryScheduler) tick() {
	start := time.Now()
	ctx := WithSuppressHeader(context.Background())
	err := s.run(ctx, s.cfg, s.mgr)

	fields := []zap.Field{
		zap.String("schedule", s.cfg.Schedule),
		zap.String("data_dir", s.cfg.DataDir),
		zap.String("output_file", summaryConfig(s.cfg).OutputFile),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("summary rebuild failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("summary rebuilt", fields...)
}

// Run starts the schedule and blocks until ctx is done. It waits for a
// rebuild in flight before returning.
func (s *SummaryScheduler) Run(ctx context.Context) error {
	s.logger.Info("summary scheduler started", zap.String("schedule", s.cfg.Schedule))
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("summary scheduler stopped")
	_ = s.logger.Sync()
	return nil
}
