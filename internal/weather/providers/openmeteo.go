package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/ski-tracker/internal/weather"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

var (
	summaryFields = []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"snowfall_sum",
		"precipitation_probability_max",
		"wind_speed_10m_max",
	}
	detailFields = append(append([]string{}, summaryFields...),
		"apparent_temperature_max",
		"apparent_temperature_min",
		"wind_gusts_10m_max",
		"wind_direction_10m_dominant",
		"sunrise",
		"sunset",
		"daylight_duration",
		"sunshine_duration",
		"uv_index_max",
		"uv_index_clear_sky_max",
		"rain_sum",
		"showers_sum",
		"precipitation_sum",
		"precipitation_hours",
	)
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// OpenMeteoOption customises an OpenMeteoProvider.
type OpenMeteoOption func(*OpenMeteoProvider)

// WithBaseURL points the provider at another Open-Meteo compatible host.
func WithBaseURL(u string) OpenMeteoOption {
	return func(p *OpenMeteoProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithRateLimit throttles outbound requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) OpenMeteoOption {
	return func(p *OpenMeteoProvider) {
		if rps > 0 {
			p.httpCfg.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBackoff overrides the retry policy.
func WithBackoff(b BackoffConfig) OpenMeteoOption {
	return func(p *OpenMeteoProvider) { p.httpCfg.Backoff = b }
}

func NewOpenMeteoProvider(client *http.Client, opts ...OpenMeteoOption) *OpenMeteoProvider {
	p := &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: defaultOpenMeteoURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// openMeteoMeta is the envelope shared by every daily response.
type openMeteoMeta struct {
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Elevation            float64 `json:"elevation"`
	Timezone             string  `json:"timezone"`
	TimezoneAbbreviation string  `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int     `json:"utc_offset_seconds"`
}

func (m openMeteoMeta) toMeta() weather.ForecastMeta {
	return weather.ForecastMeta{
		Latitude:              m.Latitude,
		Longitude:             m.Longitude,
		Elevation:             m.Elevation,
		Timezone:              m.Timezone,
		TimezoneAbbreviation:  m.TimezoneAbbreviation,
		TimezoneOffsetSeconds: m.UTCOffsetSeconds,
	}
}

// openMeteoDaily is the columnar daily block. Open-Meteo emits null for
// missing values; those decode as nil and are read as zero.
type openMeteoDaily struct {
	WeatherCode              []*int     `json:"weather_code"`
	TemperatureMax           []*float64 `json:"temperature_2m_max"`
	TemperatureMin           []*float64 `json:"temperature_2m_min"`
	SnowfallSum              []*float64 `json:"snowfall_sum"`
	PrecipitationProbability []*float64 `json:"precipitation_probability_max"`
	WindSpeedMax             []*float64 `json:"wind_speed_10m_max"`

	ApparentTemperatureMax []*float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin []*float64 `json:"apparent_temperature_min"`
	WindGustsMax           []*float64 `json:"wind_gusts_10m_max"`
	WindDirectionDominant  []*float64 `json:"wind_direction_10m_dominant"`
	Sunrise                []*int64   `json:"sunrise"`
	Sunset                 []*int64   `json:"sunset"`
	DaylightDuration       []*float64 `json:"daylight_duration"`
	SunshineDuration       []*float64 `json:"sunshine_duration"`
	UVIndexMax             []*float64 `json:"uv_index_max"`
	UVIndexClearSkyMax     []*float64 `json:"uv_index_clear_sky_max"`
	RainSum                []*float64 `json:"rain_sum"`
	ShowersSum             []*float64 `json:"showers_sum"`
	PrecipitationSum       []*float64 `json:"precipitation_sum"`
	PrecipitationHours     []*float64 `json:"precipitation_hours"`
}

func (d openMeteoDaily) summary(i int, date string) weather.DailyWeatherRecord {
	return weather.DailyWeatherRecord{
		Date:                     date,
		WeatherCode:              at(d.WeatherCode, i),
		TemperatureMax:           at(d.TemperatureMax, i),
		TemperatureMin:           at(d.TemperatureMin, i),
		SnowfallSum:              at(d.SnowfallSum, i),
		PrecipitationProbability: at(d.PrecipitationProbability, i),
		WindSpeedMax:             at(d.WindSpeedMax, i),
	}
}

func at[T any](vals []*T, i int) T {
	var zero T
	if i >= len(vals) || vals[i] == nil {
		return zero
	}
	return *vals[i]
}

// FetchForecast requests past and upcoming daily summaries.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, pastDays, forecastDays int) (weather.ForecastResponse, error) {
	values := p.baseQuery(loc, summaryFields)
	values.Set("past_days", strconv.Itoa(pastDays))
	values.Set("forecast_days", strconv.Itoa(forecastDays))

	var payload struct {
		openMeteoMeta
		Daily struct {
			Time []string `json:"time"`
			openMeteoDaily
		} `json:"daily"`
	}
	if err := p.get(ctx, values, &payload); err != nil {
		return weather.ForecastResponse{}, err
	}

	days := make([]weather.DailyWeatherRecord, 0, len(payload.Daily.Time))
	for i, date := range payload.Daily.Time {
		days = append(days, payload.Daily.summary(i, date))
	}

	return weather.ForecastResponse{
		ForecastMeta: payload.toMeta(),
		DailyData:    days,
	}, nil
}

// FetchDay requests the detailed record of a single date. Times come back as
// unix seconds so sunrise and sunset are absolute instants.
func (p *OpenMeteoProvider) FetchDay(ctx context.Context, loc weather.Location, date string) (weather.DayDetailResponse, error) {
	values := p.baseQuery(loc, detailFields)
	values.Set("start_date", date)
	values.Set("end_date", date)
	values.Set("timeformat", "unixtime")

	var payload struct {
		openMeteoMeta
		Daily struct {
			Time []int64 `json:"time"`
			openMeteoDaily
		} `json:"daily"`
	}
	if err := p.get(ctx, values, &payload); err != nil {
		return weather.DayDetailResponse{}, err
	}

	offset := time.Duration(payload.UTCOffsetSeconds) * time.Second
	d := payload.Daily
	days := make([]weather.DetailedDailyWeatherRecord, 0, len(d.Time))
	for i, ts := range d.Time {
		// Day starts are local midnight; shift by the offset to read the
		// local calendar date.
		local := time.Unix(ts, 0).UTC().Add(offset).Format("2006-01-02")
		days = append(days, weather.DetailedDailyWeatherRecord{
			DailyWeatherRecord:     d.summary(i, local),
			ApparentTemperatureMax: at(d.ApparentTemperatureMax, i),
			ApparentTemperatureMin: at(d.ApparentTemperatureMin, i),
			WindGustsMax:           at(d.WindGustsMax, i),
			WindDirectionDominant:  at(d.WindDirectionDominant, i),
			Sunrise:                at(d.Sunrise, i),
			Sunset:                 at(d.Sunset, i),
			DaylightDuration:       at(d.DaylightDuration, i),
			SunshineDuration:       at(d.SunshineDuration, i),
			UVIndexMax:             at(d.UVIndexMax, i),
			UVIndexClearSkyMax:     at(d.UVIndexClearSkyMax, i),
			RainSum:                at(d.RainSum, i),
			ShowersSum:             at(d.ShowersSum, i),
			PrecipitationSum:       at(d.PrecipitationSum, i),
			PrecipitationHours:     at(d.PrecipitationHours, i),
		})
	}

	return weather.DayDetailResponse{
		ForecastMeta: payload.toMeta(),
		DailyData:    days,
	}, nil
}

func (p *OpenMeteoProvider) baseQuery(loc weather.Location, fields []string) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	values.Set("daily", strings.Join(fields, ","))
	values.Set("timezone", "auto")
	return values
}

func (p *OpenMeteoProvider) get(ctx context.Context, values url.Values, out interface{}) error {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode openmeteo response: %w", err)
	}
	return nil
}
