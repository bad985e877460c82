package weather

import (
	"context"
)

// ForecastProvider abstracts a daily forecast source (e.g. Open-Meteo).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location, pastDays, forecastDays int) (ForecastResponse, error)
	FetchDay(ctx context.Context, loc Location, date string) (DayDetailResponse, error)
}

// Store is the contract the in-memory forecast cache must satisfy.
type Store interface {
	// SaveForecast keeps snapshot unless a newer generation is already
	// stored for the location. It reports whether the snapshot was kept.
	SaveForecast(loc Location, snapshot ForecastSnapshot) bool
	GetLatest(loc Location) (ForecastSnapshot, error)
}
