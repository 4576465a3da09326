package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds one scheduled collection run.
const runTimeout = 30 * time.Minute

// Scheduler triggers full collection runs on a cron spec, evaluated in
// the configured timezone.
type Scheduler struct {
	cron      *cron.Cron
	collector *Collector
}

func NewScheduler(c *Collector, spec, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		collector: c,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	summary, err := s.collector.CollectAllRegions(ctx, 0)
	if err != nil {
		log.Printf("scheduler: collection run failed: %v", err)
		return
	}
	log.Printf("scheduler: collection %s: %d/%d regions, %d records",
		summary.Status, summary.Collected, summary.TotalRegions, summary.TotalRecords)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("scheduler: started")
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("scheduler: stopped")
}
