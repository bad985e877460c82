package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/ski-tracker/internal/calendar"
	"github.com/i474232898/ski-tracker/internal/colormode"
	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/store"
	"github.com/i474232898/ski-tracker/internal/weather"
	"github.com/i474232898/ski-tracker/internal/webcam"
)

// noon in Vancouver, 13:00 in Edmonton.
var fixedNow = time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

type fakeProvider struct {
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchForecast(_ context.Context, loc weather.Location, _, _ int) (weather.ForecastResponse, error) {
	f.calls++
	if f.err != nil {
		return weather.ForecastResponse{}, f.err
	}
	resp := weather.ForecastResponse{
		ForecastMeta: weather.ForecastMeta{Latitude: loc.Latitude, Longitude: loc.Longitude, Timezone: "America/Vancouver"},
	}
	for d := 12; d <= 21; d++ {
		resp.DailyData = append(resp.DailyData, weather.DailyWeatherRecord{
			Date:           fmt.Sprintf("2024-01-%02d", d),
			WeatherCode:    73,
			TemperatureMax: -4,
			TemperatureMin: -8,
			SnowfallSum:    5,
			WindSpeedMax:   10,
		})
	}
	return resp, nil
}

func (f *fakeProvider) FetchDay(_ context.Context, _ weather.Location, date string) (weather.DayDetailResponse, error) {
	if f.err != nil {
		return weather.DayDetailResponse{}, f.err
	}
	rec := weather.DetailedDailyWeatherRecord{UVIndexMax: 2.5}
	rec.Date = date
	return weather.DayDetailResponse{DailyData: []weather.DetailedDailyWeatherRecord{rec}}, nil
}

func newTestApp(t *testing.T, provider *fakeProvider) *fiber.App {
	t.Helper()

	classifier, err := calendar.NewClassifier("America/Vancouver")
	require.NoError(t, err)
	resolver, err := webcam.NewResolver(webcam.DefaultGridZone)
	require.NoError(t, err)

	clock := func() time.Time { return fixedNow }
	svc := weather.NewService(store.NewMemoryStore(0), provider, classifier, logger.Discard(), weather.WithClock(clock))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Service:    svc,
		Resolver:   resolver,
		ColorModes: colormode.NewMemoryStorage(),
		Runtime:    RuntimeConfig{APIBaseURL: "http://localhost:8000", DisplayTimezone: "America/Vancouver"},
		Log:        logger.Discard(),
		Now:        clock,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request, out interface{}) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp
}

func TestConfigAndMountains(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	var cfg RuntimeConfig
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/config", nil), &cfg)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)

	var list struct {
		Mountains []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"mountains"`
		Default string `json:"default"`
	}
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains", nil), &list)
	require.Len(t, list.Mountains, 3)
	assert.Equal(t, "big-white", list.Default)
}

func TestSevenDaysValidation(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	for _, q := range []string{"", "?latitude=49.7", "?latitude=abc&longitude=-118.9", "?latitude=95&longitude=-118.9"} {
		req := httptest.NewRequest(http.MethodGet, "/api/ski-tracker/weather/7days"+q, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestSevenDaysCachesForecast(t *testing.T) {
	provider := &fakeProvider{}
	app := newTestApp(t, provider)

	for i := 0; i < 2; i++ {
		var forecast weather.ForecastResponse
		req := httptest.NewRequest(http.MethodGet, "/api/ski-tracker/weather/7days?latitude=49.7313&longitude=-118.9439", nil)
		resp := doJSON(t, app, req, &forecast)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, forecast.DailyData, 10)
	}
	assert.Equal(t, 1, provider.calls)
}

func TestSevenDaysUpstreamFailure(t *testing.T) {
	app := newTestApp(t, &fakeProvider{err: errors.New("boom")})

	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	req := httptest.NewRequest(http.MethodGet, "/api/ski-tracker/weather/7days?latitude=49.7&longitude=-118.9", nil)
	resp := doJSON(t, app, req, &body)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.True(t, body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestDayDetail(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})
	base := "/api/ski-tracker/weather/day?latitude=49.7&longitude=-118.9"

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, base+"&start_date=2024-01-15&end_date=2024-01-16", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, base+"&start_date=2024/01/15&end_date=2024/01/15", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var detail weather.DayDetailResponse
	resp = doJSON(t, app, httptest.NewRequest(http.MethodGet, base+"&start_date=2024-01-15&end_date=2024-01-15", nil), &detail)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, detail.DailyData, 1)
	assert.Equal(t, "2024-01-15", detail.DailyData[0].Date)
	assert.Equal(t, 2.5, detail.DailyData[0].UVIndexMax)
}

func TestConditions(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	var dash weather.Dashboard
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/big-white/conditions", nil), &dash)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-01-15", dash.Reference)
	require.NotEmpty(t, dash.Timeline)
	assert.Equal(t, calendar.LabelToday, dash.Timeline[0].Label)
	assert.Equal(t, calendar.LabelTomorrow, dash.Timeline[1].Label)
	assert.Equal(t, "Wed", dash.Timeline[2].Label)
	assert.Equal(t, weather.FamilySnow, dash.Today.Family)
	assert.True(t, dash.Conditions.HasPastData)
	assert.Equal(t, "5.9\"", dash.Conditions.Past72Display)
}

func TestConditionsErrors(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/whistler/conditions", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/sun-peaks/conditions?date=tomorrow", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type webcamsBody struct {
	SelectedAt int64 `json:"selectedAt"`
	Cameras    []struct {
		ID       string `json:"id"`
		Resolved string `json:"resolvedUrl"`
	} `json:"cameras"`
	Selected struct {
		ID          string            `json:"id"`
		Resolved    string            `json:"resolvedUrl"`
		Index       int               `json:"index"`
		Retry       webcam.RetryState `json:"retry"`
		NextAttempt *int              `json:"nextAttempt"`
	} `json:"selected"`
}

func TestWebcamsGridRetry(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	var body webcamsBody
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/panorama/webcams?attempt=2", nil), &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 13:00 MST minus two retry steps is 12:30, which snaps to 12:25.
	assert.True(t, strings.HasSuffix(body.Selected.Resolved, "_20240115_1225.jpg"), body.Selected.Resolved)
	assert.Equal(t, 2, body.Selected.Retry.AttemptCount)
	require.NotNil(t, body.Selected.NextAttempt)
	assert.Equal(t, 3, *body.Selected.NextAttempt)
	assert.True(t, strings.HasSuffix(body.Cameras[0].Resolved, "_20240115_1255.jpg"), body.Cameras[0].Resolved)
}

func TestWebcamsExhaustedAndStatic(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	var grid webcamsBody
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/panorama/webcams?index=10&attempt=50", nil), &grid)
	assert.Equal(t, 1, grid.Selected.Index)
	assert.Equal(t, webcam.MaxAttempts, grid.Selected.Retry.AttemptCount)
	assert.Nil(t, grid.Selected.NextAttempt)

	var static webcamsBody
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/big-white/webcams?selected_at=1705327200000&attempt=3", nil), &static)
	assert.Equal(t, int64(1705327200000), static.SelectedAt)
	assert.Equal(t, 0, static.Selected.Retry.AttemptCount)
	assert.Nil(t, static.Selected.NextAttempt)
	assert.True(t, strings.HasSuffix(static.Selected.Resolved, "village.jpg?timestamp=1705327200000"), static.Selected.Resolved)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/big-white/webcams?attempt=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebcamsHugeAttemptOnStaticCamera(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	for _, q := range []string{"attempt=1000000000", "attempt=9223372036854775807"} {
		req := httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/big-white/webcams?"+q, nil)
		start := time.Now()
		resp, err := app.Test(req, 2000)
		require.NoError(t, err, q)
		assert.Less(t, time.Since(start), time.Second, q)
		require.Equal(t, http.StatusOK, resp.StatusCode, q)

		var body webcamsBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 0, body.Selected.Retry.AttemptCount, q)
		assert.Nil(t, body.Selected.NextAttempt, q)
	}
}

func TestWebcamsSelectedAtOverflow(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/sun-peaks/webcams?selected_at=99999999999999999999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebcamsForceTimestampAppliesToEveryCamera(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	var body webcamsBody
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/panorama/webcams?force_timestamp=true&selected_at=42", nil), &body)
	require.NotEmpty(t, body.Cameras)
	for _, cam := range body.Cameras {
		assert.True(t, strings.HasSuffix(cam.Resolved, ".jpg?timestamp=42"), cam.Resolved)
	}
	assert.True(t, strings.HasSuffix(body.Selected.Resolved, ".jpg?timestamp=42"), body.Selected.Resolved)

	var plain webcamsBody
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/ski-tracker/mountains/panorama/webcams?selected_at=42", nil), &plain)
	for _, cam := range plain.Cameras {
		assert.NotContains(t, cam.Resolved, "timestamp=", cam.Resolved)
	}
}

func clientCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == clientCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", clientCookie)
	return nil
}

func TestColorModePreferences(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})
	const path = "/api/ski-tracker/preferences/color-mode"

	var got struct {
		Mode string `json:"mode"`
	}
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, path, nil), &got)
	assert.Equal(t, "light", got.Mode)
	cookie := clientCookieFrom(t, resp)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"mode":"dark"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp = doJSON(t, app, req, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", got.Mode)

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(cookie)
	doJSON(t, app, req, &got)
	assert.Equal(t, "dark", got.Mode)

	req = httptest.NewRequest(http.MethodPost, path+"/toggle", nil)
	req.AddCookie(cookie)
	doJSON(t, app, req, &got)
	assert.Equal(t, "light", got.Mode)

	// A different client is unaffected.
	doJSON(t, app, httptest.NewRequest(http.MethodGet, path, nil), &got)
	assert.Equal(t, "light", got.Mode)
}

func TestColorModeClientHintAndValidation(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})
	const path = "/api/ski-tracker/preferences/color-mode"

	var got struct {
		Mode string `json:"mode"`
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")
	doJSON(t, app, req, &got)
	assert.Equal(t, "dark", got.Mode)

	req = httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"mode":"sepia"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
