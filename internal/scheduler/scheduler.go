// Package scheduler periodically warms the weather caches for tracked
// locations so dashboard reads stay hot between provider refreshes.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"weatherdash/internal/config"
	"weatherdash/internal/weather"

	"github.com/go-co-op/gocron"
)

type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []config.Location
	interval  time.Duration
}

func New(locations []config.Location, interval time.Duration, service *weather.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job. With no tracked locations there
// is nothing to do.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		slog.Info("scheduler: no tracked locations configured")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		var wg sync.WaitGroup
		for _, loc := range s.locations {
			wg.Add(1)
			go func(loc config.Location) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.service.Refresh(ctx, loc); err != nil {
					slog.Warn("scheduler: refresh failed", "location", loc.Key(), "error", err)
				}
			}(loc)
		}
		wg.Wait()
		slog.Debug("scheduler: refresh cycle complete", "locations", len(s.locations))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
