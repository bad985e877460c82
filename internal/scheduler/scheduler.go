package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/mountain"
	"github.com/i474232898/ski-tracker/internal/weather"
)

// Refresher fetches and caches one location's forecast.
type Refresher interface {
	FetchAndStore(ctx context.Context, loc weather.Location) (weather.ForecastSnapshot, error)
}

// Scheduler periodically refreshes forecasts for every mountain.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	mountains []mountain.Mountain
	interval  time.Duration
	timeout   time.Duration
	log       logger.Logger
}

// New creates a new Scheduler.
func New(mountains []mountain.Mountain, interval time.Duration, refresher Refresher, log logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		mountains: mountains,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.mountains) == 0 {
		s.log.Warn("no mountains configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every mountain concurrently and waits for all of them.
// It returns how many refreshes failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.log.Debug("running forecast refresh job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, m := range s.mountains {
		wg.Add(1)
		go func(m mountain.Mountain) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if _, err := s.refresher.FetchAndStore(ctx, weather.LocationOf(m)); err != nil {
				s.log.WithField("mountain", m.Key).Errorf("refresh failed: %v", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(m)
	}
	wg.Wait()

	s.log.Infof("completed forecast refresh job (%d/%d ok)", len(s.mountains)-failed, len(s.mountains))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
