package storage

import (
	"github.com/roylee0704/gron"
	"sync"
	"time"
	"trustive/internal/providers"
	"trustive/internal/storage/interfaces"
	"trustive/internal/structures"
)

// Scheduler flushes a Persister on the configured interval and once more on
// shutdown. Backends that write through (memory, postgres) make every call a
// no-op.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	persister Persister
	metrics   providers.MetricsProviderInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	if s.persister == nil || s.config.Storage.SaveInterval <= 0 {
		return
	}
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Storage.SaveInterval), func() {
		if err := s.flush(); err != nil {
			s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
		}
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Restore()
}

func (s *Scheduler) Persist() error {
	if s.persister == nil {
		return nil
	}
	s.logger.Infof(providers.TypeStore, "Persisting storage snapshot...")
	err := s.flush()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) flush() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.persister.Flush()
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, kv KeyValueStorage, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	s := &Scheduler{
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
	if p, ok := kv.(Persister); ok {
		s.persister = p
	}
	return s
}
