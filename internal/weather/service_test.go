package weather_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/ski-tracker/internal/calendar"
	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/mountain"
	"github.com/i474232898/ski-tracker/internal/store"
	"github.com/i474232898/ski-tracker/internal/weather"
)

// scriptedProvider answers each FetchForecast call with the next response,
// optionally waiting on a gate first.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []weather.ForecastResponse
	gates     []chan struct{}
	err       error
	calls     int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) FetchForecast(ctx context.Context, _ weather.Location, _, _ int) (weather.ForecastResponse, error) {
	p.mu.Lock()
	i := p.calls
	p.calls++
	var gate chan struct{}
	if i < len(p.gates) {
		gate = p.gates[i]
	}
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return weather.ForecastResponse{}, ctx.Err()
		}
	}
	if p.err != nil {
		return weather.ForecastResponse{}, p.err
	}
	return p.responses[i%len(p.responses)], nil
}

func (p *scriptedProvider) FetchDay(context.Context, weather.Location, string) (weather.DayDetailResponse, error) {
	if p.err != nil {
		return weather.DayDetailResponse{}, p.err
	}
	return weather.DayDetailResponse{}, nil
}

func forecastWithSnow(cm float64) weather.ForecastResponse {
	return weather.ForecastResponse{DailyData: []weather.DailyWeatherRecord{
		{Date: "2024-01-14", SnowfallSum: cm},
		{Date: "2024-01-15", SnowfallSum: cm, WeatherCode: 71},
		{Date: "2024-01-16", SnowfallSum: cm, WeatherCode: 3},
	}}
}

func newService(t *testing.T, p weather.ForecastProvider) *weather.Service {
	t.Helper()
	classifier, err := calendar.NewClassifier("America/Vancouver")
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC) }
	return weather.NewService(store.NewMemoryStore(0), p, classifier, logger.Discard(), weather.WithClock(now))
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	p := &scriptedProvider{
		responses: []weather.ForecastResponse{forecastWithSnow(1), forecastWithSnow(9)},
		gates:     []chan struct{}{slow},
	}
	svc := newService(t, p)
	loc := weather.LocationOf(mountain.Default())
	ctx := context.Background()

	done := make(chan weather.ForecastSnapshot)
	go func() {
		snap, err := svc.FetchAndStore(ctx, loc)
		assert.NoError(t, err)
		done <- snap
	}()

	// Wait until the first request has taken its generation.
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.calls == 1
	}, time.Second, time.Millisecond)

	fresh, err := svc.FetchAndStore(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 9.0, fresh.Forecast.DailyData[0].SnowfallSum)

	close(slow)
	stale := <-done
	assert.Equal(t, fresh.Generation, stale.Generation, "late response returns the newer snapshot")

	got, err := svc.GetForecast(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.DailyData[0].SnowfallSum)
}

func TestFetchAndStoreErrors(t *testing.T) {
	ctx := context.Background()
	loc := weather.LocationOf(mountain.Default())

	svc := newService(t, &scriptedProvider{err: errors.New("timeout")})
	_, err := svc.FetchAndStore(ctx, loc)
	assert.ErrorIs(t, err, weather.ErrUpstream)

	svc = newService(t, &scriptedProvider{responses: []weather.ForecastResponse{{}}})
	_, err = svc.FetchAndStore(ctx, loc)
	assert.ErrorIs(t, err, weather.ErrNoData)

	classifier, _ := calendar.NewClassifier("UTC")
	svc = weather.NewService(store.NewMemoryStore(0), nil, classifier, logger.Discard())
	_, err = svc.FetchAndStore(ctx, loc)
	assert.ErrorIs(t, err, weather.ErrNoProvider)
	_, err = svc.GetDay(ctx, loc, "2024-01-15")
	assert.ErrorIs(t, err, weather.ErrNoProvider)
}

func TestGetDayErrors(t *testing.T) {
	ctx := context.Background()
	loc := weather.LocationOf(mountain.Default())

	_, err := newService(t, &scriptedProvider{}).GetDay(ctx, loc, "2024-01-15")
	assert.ErrorIs(t, err, weather.ErrNoData)

	_, err = newService(t, &scriptedProvider{err: errors.New("503")}).GetDay(ctx, loc, "2024-01-15")
	assert.ErrorIs(t, err, weather.ErrUpstream)
}

func TestDashboard(t *testing.T) {
	svc := newService(t, &scriptedProvider{responses: []weather.ForecastResponse{forecastWithSnow(2.54)}})
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx, mountain.Default(), "")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", dash.Reference)
	assert.Equal(t, weather.FamilySnow, dash.Today.Family)
	require.Len(t, dash.Timeline, 2)
	assert.Equal(t, calendar.LabelToday, dash.Timeline[0].Label)
	assert.Equal(t, calendar.LabelTomorrow, dash.Timeline[1].Label)
	assert.Equal(t, weather.FamilyClouds, dash.Timeline[1].Condition.Family)
	assert.InDelta(t, 1.0, dash.Timeline[0].SnowfallIn, 1e-9)
	assert.InDelta(t, 1.0, dash.Conditions.Fresh24, 1e-9)
	assert.InDelta(t, 1.0, dash.Conditions.Past72, 1e-9)
	assert.InDelta(t, 1.0, dash.Conditions.Next72, 1e-9)

	past, err := svc.Dashboard(ctx, mountain.Default(), "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-14", past.Conditions.Date)
	require.Len(t, past.Timeline, 3)
	assert.Equal(t, "Sun", past.Timeline[0].Label)
	assert.False(t, past.Conditions.HasPastData)
}
