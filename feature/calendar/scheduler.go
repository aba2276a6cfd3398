package calendar

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic fleet syncs and archive maintenance in the
// background.
type Scheduler struct {
	service *Service
	archive *Archive
	spec    string
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewScheduler creates a Scheduler that fires fleet syncs on the given
// cron spec. archive may be nil when feed archiving is disabled.
func NewScheduler(service *Service, archive *Archive, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		archive: archive,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.spec, func() {
		res := s.service.SyncAll(context.Background())
		s.logger.Info("scheduled fleet sync finished",
			zap.Int("synced", res.Synced),
			zap.Int("failed", res.Failed))
	}); err != nil {
		return err
	}

	if s.archive != nil {
		if _, err := s.cron.AddFunc("30 3 * * *", func() {
			pruned, err := s.archive.Prune(context.Background())
			if err != nil {
				s.logger.Warn("feed archive pruning failed", zap.Error(err))
				return
			}
			s.logger.Info("feed archive pruned", zap.Int("objects", pruned))
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("calendar scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
}
