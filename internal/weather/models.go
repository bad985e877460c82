package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/ski-tracker/internal/mountain"
)

// Location is a forecast point.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationOf returns the forecast point of a catalog mountain.
func LocationOf(m mountain.Mountain) Location {
	return Location{Latitude: m.Coordinates.Latitude, Longitude: m.Coordinates.Longitude}
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f:%.4f", l.Latitude, l.Longitude)
}

// DailyWeatherRecord is one calendar day of observation or forecast.
// Units: °C, km/h, percent, cm.
type DailyWeatherRecord struct {
	Date                     string  `json:"date"`
	WeatherCode              int     `json:"weather_code"`
	TemperatureMax           float64 `json:"temperature_2m_max"`
	TemperatureMin           float64 `json:"temperature_2m_min"`
	SnowfallSum              float64 `json:"snowfall_sum"`
	PrecipitationProbability float64 `json:"precipitation_probability_max"`
	WindSpeedMax             float64 `json:"wind_speed_10m_max"`
}

// AvgTemperature is the midpoint of the day's max and min.
func (d DailyWeatherRecord) AvgTemperature() float64 {
	return (d.TemperatureMax + d.TemperatureMin) / 2
}

// DetailedDailyWeatherRecord is the single-day detail variant.
type DetailedDailyWeatherRecord struct {
	DailyWeatherRecord

	ApparentTemperatureMax float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin float64 `json:"apparent_temperature_min"`
	WindGustsMax           float64 `json:"wind_gusts_10m_max"`
	WindDirectionDominant  float64 `json:"wind_direction_10m_dominant"`
	Sunrise                int64   `json:"sunrise"`
	Sunset                 int64   `json:"sunset"`
	DaylightDuration       float64 `json:"daylight_duration"`
	SunshineDuration       float64 `json:"sunshine_duration"`
	UVIndexMax             float64 `json:"uv_index_max"`
	UVIndexClearSkyMax     float64 `json:"uv_index_clear_sky_max"`
	RainSum                float64 `json:"rain_sum"`
	ShowersSum             float64 `json:"showers_sum"`
	PrecipitationSum       float64 `json:"precipitation_sum"`
	PrecipitationHours     float64 `json:"precipitation_hours"`
}

// ForecastMeta describes the grid point the upstream resolved.
type ForecastMeta struct {
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	Elevation             float64 `json:"elevation"`
	Timezone              string  `json:"timezone"`
	TimezoneAbbreviation  string  `json:"timezone_abbreviation"`
	TimezoneOffsetSeconds int     `json:"timezone_offset_seconds"`
}

// ForecastResponse is the multi-day forecast body. DailyData is ordered by
// date ascending.
type ForecastResponse struct {
	ForecastMeta
	DailyData []DailyWeatherRecord `json:"daily_data"`
}

// DayDetailResponse is the single-day detail body.
type DayDetailResponse struct {
	ForecastMeta
	DailyData []DetailedDailyWeatherRecord `json:"daily_data"`
}

// ForecastSnapshot is a stored forecast. Generation orders fetches: a store
// keeps the snapshot from the newest fetch that was started, not the one
// that finished last.
type ForecastSnapshot struct {
	Location   Location         `json:"location"`
	Forecast   ForecastResponse `json:"forecast"`
	FetchedAt  time.Time        `json:"fetchedAt"` // always UTC
	Generation uint64           `json:"generation"`
}
