package weather

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/i474232898/ski-tracker/internal/calendar"
	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/mountain"
)

var (
	// ErrNoProvider is returned when no forecast provider is configured.
	ErrNoProvider = errors.New("no forecast provider configured")
	// ErrNoData is returned when the upstream answered without any days.
	ErrNoData = errors.New("no forecast data available")
	// ErrUpstream wraps failures talking to the forecast provider.
	ErrUpstream = errors.New("forecast provider request failed")
)

// Service orchestrates fetching forecasts, caching them and deriving the
// dashboard view.
type Service struct {
	store      Store
	provider   ForecastProvider
	classifier *calendar.Classifier
	log        logger.Logger

	pastDays     int
	forecastDays int
	now          func() time.Time

	generation atomic.Uint64
}

// Option customises a Service.
type Option func(*Service)

// WithWindow sets how many past and future days a forecast covers.
func WithWindow(pastDays, forecastDays int) Option {
	return func(s *Service) {
		s.pastDays = pastDays
		s.forecastDays = forecastDays
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(store Store, provider ForecastProvider, classifier *calendar.Classifier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		provider:     provider,
		classifier:   classifier,
		log:          log.WithField("component", "weather-service"),
		pastDays:     3,
		forecastDays: 7,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAndStore fetches a fresh forecast and stores it. A generation token is
// taken before the request, so a slow response that finishes after a newer
// one is discarded instead of overwriting it.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) (ForecastSnapshot, error) {
	if s.provider == nil {
		return ForecastSnapshot{}, ErrNoProvider
	}

	gen := s.generation.Add(1)
	log := s.log.WithFields(map[string]interface{}{"location": loc.Key(), "generation": gen})
	log.Debug("fetching forecast")

	forecast, err := s.provider.FetchForecast(ctx, loc, s.pastDays, s.forecastDays)
	if err != nil {
		log.Warnf("provider %s forecast failed: %v", s.provider.Name(), err)
		return ForecastSnapshot{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(forecast.DailyData) == 0 {
		return ForecastSnapshot{}, ErrNoData
	}

	snapshot := ForecastSnapshot{
		Location:   loc,
		Forecast:   forecast,
		FetchedAt:  s.now().UTC(),
		Generation: gen,
	}
	if !s.store.SaveForecast(loc, snapshot) {
		log.Info("discarding superseded forecast response")
		if latest, err := s.store.GetLatest(loc); err == nil {
			return latest, nil
		}
	}
	return snapshot, nil
}

// GetForecast returns the cached forecast for loc, fetching on a miss.
func (s *Service) GetForecast(ctx context.Context, loc Location) (ForecastResponse, error) {
	if snap, err := s.store.GetLatest(loc); err == nil {
		return snap.Forecast, nil
	}
	snap, err := s.FetchAndStore(ctx, loc)
	if err != nil {
		return ForecastResponse{}, err
	}
	return snap.Forecast, nil
}

// GetDay fetches the detailed record of a single date. Details are not cached.
func (s *Service) GetDay(ctx context.Context, loc Location, date string) (DayDetailResponse, error) {
	if s.provider == nil {
		return DayDetailResponse{}, ErrNoProvider
	}
	detail, err := s.provider.FetchDay(ctx, loc, date)
	if err != nil {
		s.log.Warnf("provider %s day detail failed for %s on %s: %v", s.provider.Name(), loc.Key(), date, err)
		return DayDetailResponse{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(detail.DailyData) == 0 {
		return DayDetailResponse{}, ErrNoData
	}
	return detail, nil
}

// TimelineDay is one entry in the dashboard's forecast strip.
type TimelineDay struct {
	Date           string    `json:"date"`
	Label          string    `json:"label"`
	Condition      Condition `json:"condition"`
	TemperatureMax float64   `json:"temperatureMax"`
	TemperatureMin float64   `json:"temperatureMin"`
	SnowfallIn     float64   `json:"snowfallIn"`
	SkiScore       int       `json:"skiScore"`
}

// Dashboard is the composed view for one mountain and reference day.
type Dashboard struct {
	Mountain   mountain.Mountain `json:"mountain"`
	Reference  string            `json:"reference"`
	Conditions DerivedConditions `json:"conditions"`
	Today      Condition         `json:"today"`
	Timeline   []TimelineDay     `json:"timeline"`
	Forecast   ForecastMeta      `json:"forecast"`
}

// Dashboard derives conditions and a labelled timeline. An empty reference
// means today in the display zone.
func (s *Service) Dashboard(ctx context.Context, m mountain.Mountain, reference string) (Dashboard, error) {
	forecast, err := s.GetForecast(ctx, LocationOf(m))
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	if reference == "" {
		reference = s.classifier.Today(now).String()
	}

	days := forecast.DailyData
	conditions := DeriveConditions(days, reference)
	ref, _ := referenceDay(days, reference)

	timeline := make([]TimelineDay, 0, len(days))
	for _, d := range days {
		if d.Date < reference {
			continue
		}
		score := ComputeSkiScore(d, windowsAround(days, d.Date).next72)
		timeline = append(timeline, TimelineDay{
			Date:           d.Date,
			Label:          s.classifier.ClassifyDate(d.Date, now),
			Condition:      LookupCondition(d.WeatherCode),
			TemperatureMax: d.TemperatureMax,
			TemperatureMin: d.TemperatureMin,
			SnowfallIn:     CmToIn(d.SnowfallSum),
			SkiScore:       score.Score,
		})
	}

	return Dashboard{
		Mountain:   m,
		Reference:  reference,
		Conditions: conditions,
		Today:      LookupCondition(ref.WeatherCode),
		Timeline:   timeline,
		Forecast:   forecast.ForecastMeta,
	}, nil
}
