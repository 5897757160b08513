package monitor

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers the backend probe on schedule (standard cron syntax or
// descriptors such as "@every 30s"), runs one probe right away and starts
// the scheduler.
func (s *Scheduler) Start(ctx context.Context, schedule string, m *BackendMonitor) error {
	_, err := s.cron.AddFunc(schedule, func() {
		m.Check(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule backend probe %q: %w", schedule, err)
	}

	go m.Check(ctx)

	log.Printf("Cron scheduler started (backend probe %s)", schedule)
	s.cron.Start()
	return nil
}

// Stop halts the scheduler; the returned context is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
