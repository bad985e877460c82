package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/ski-tracker/internal/colormode"
	"github.com/i474232898/ski-tracker/internal/common"
	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/mountain"
	"github.com/i474232898/ski-tracker/internal/weather"
	"github.com/i474232898/ski-tracker/internal/webcam"
)

var validate = validator.New()

// RuntimeConfig is what the dashboard needs to know about its deployment.
type RuntimeConfig struct {
	APIBaseURL      string `json:"api_base_url"`
	DisplayTimezone string `json:"display_timezone"`
}

// Deps are the collaborators the handlers use.
type Deps struct {
	Service    *weather.Service
	Resolver   *webcam.Resolver
	ColorModes colormode.Storage
	Runtime    RuntimeConfig
	Log        logger.Logger
	Now        func() time.Time
}

type handlers struct {
	Deps
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.ColorModes == nil {
		deps.ColorModes = colormode.NewMemoryStorage()
	}
	h := &handlers{Deps: deps}

	api := app.Group("/api/ski-tracker")

	api.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(h.Runtime)
	})

	api.Get("/weather/7days", h.sevenDays)
	api.Get("/weather/day", h.day)

	api.Get("/mountains", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"mountains": mountain.All(), "default": mountain.Default().Key})
	})
	api.Get("/mountains/:id/conditions", h.conditions)
	api.Get("/mountains/:id/webcams", h.webcams)

	api.Get("/preferences/color-mode", h.getColorMode)
	api.Put("/preferences/color-mode", h.putColorMode)
	api.Post("/preferences/color-mode/toggle", h.toggleColorMode)
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func (h *handlers) sevenDays(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	forecast, err := h.Service.GetForecast(c.UserContext(), loc)
	if err != nil {
		return serviceError(err, "failed to fetch forecast")
	}
	return c.JSON(forecast)
}

func (h *handlers) day(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q := dayQuery{StartDate: c.Query("start_date"), EndDate: c.Query("end_date")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.Service.GetDay(c.UserContext(), loc, q.StartDate)
	if err != nil {
		return serviceError(err, "failed to fetch day detail")
	}
	return c.JSON(detail)
}

func (h *handlers) conditions(c *fiber.Ctx) error {
	m, ok := mountain.Lookup(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown mountain")
	}

	q := conditionsQuery{Date: c.Query("date")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	dash, err := h.Service.Dashboard(c.UserContext(), m, q.Date)
	if err != nil {
		return serviceError(err, "failed to build conditions")
	}
	return c.JSON(dash)
}

type cameraView struct {
	webcam.Entry
	Resolved string `json:"resolvedUrl"`
}

type selectedCamera struct {
	cameraView
	Index       int               `json:"index"`
	Retry       webcam.RetryState `json:"retry"`
	NextAttempt *int              `json:"nextAttempt"`
}

func (h *handlers) webcams(c *fiber.Ctx) error {
	m, ok := mountain.Lookup(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown mountain")
	}

	q := webcamQuery{
		Index:      c.Query("index"),
		Attempt:    c.Query("attempt"),
		SelectedAt: c.Query("selected_at"),
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	now := h.Now()
	selectedAt := now
	if q.SelectedAt != "" {
		ms, err := strconv.ParseInt(q.SelectedAt, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "selected_at out of range")
		}
		selectedAt = time.UnixMilli(ms)
	}

	force := c.QueryBool("force_timestamp")
	var opts []webcam.PanelOption
	if force {
		opts = append(opts, webcam.WithForcedTimestamp())
	}
	panel := webcam.NewPanel(h.Resolver, m.Key, selectedAt, opts...)
	if panel.Len() == 0 {
		return c.JSON(fiber.Map{"mountain": m.Key, "cameras": []cameraView{}, "selected": nil})
	}

	panel.Select(atoiOrZero(q.Index))
	// Failures past the cap change nothing, so only replay up to it.
	for i := common.ClampInt(atoiOrZero(q.Attempt), 0, webcam.MaxAttempts); i > 0; i-- {
		panel.OnImageError()
	}

	cameras := make([]cameraView, 0, panel.Len())
	for _, e := range webcam.For(m.Key) {
		if force {
			e.CacheBust = true
		}
		cameras = append(cameras, cameraView{Entry: e, Resolved: h.Resolver.Resolve(e, 0, now, selectedAt)})
	}

	cur, _ := panel.Current()
	url, _ := panel.CurrentURL(now)
	sel := selectedCamera{
		cameraView: cameraView{Entry: cur, Resolved: url},
		Index:      panel.Index(),
		Retry:      panel.Retry(),
	}
	if cur.IsDynamic() && !sel.Retry.Exhausted() {
		next := sel.Retry.OnLoadFailure().AttemptCount
		sel.NextAttempt = &next
	}

	return c.JSON(fiber.Map{
		"mountain":   m.Key,
		"selectedAt": selectedAt.UnixMilli(),
		"cameras":    cameras,
		"selected":   sel,
	})
}

// serviceError maps weather service failures onto HTTP status codes.
func serviceError(err error, msg string) error {
	switch {
	case errors.Is(err, weather.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, "no forecast data for requested location")
	case errors.Is(err, weather.ErrUpstream), errors.Is(err, weather.ErrNoProvider):
		return fiber.NewError(fiber.StatusBadGateway, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// locationQuery holds query parameters for identifying a forecast point.
type locationQuery struct {
	Latitude  string `validate:"required,latitude"`
	Longitude string `validate:"required,longitude"`
}

func parseLocationQuery(c *fiber.Ctx) (weather.Location, error) {
	q := locationQuery{Latitude: c.Query("latitude"), Longitude: c.Query("longitude")}
	if err := validate.Struct(q); err != nil {
		return weather.Location{}, err
	}

	lat, err := strconv.ParseFloat(q.Latitude, 64)
	if err != nil {
		return weather.Location{}, err
	}
	lon, err := strconv.ParseFloat(q.Longitude, 64)
	if err != nil {
		return weather.Location{}, err
	}
	return weather.Location{Latitude: lat, Longitude: lon}, nil
}

// dayQuery selects a single day; the range form is kept for compatibility
// with the upstream API but both ends must match.
type dayQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02,eqfield=StartDate"`
}

type conditionsQuery struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

type webcamQuery struct {
	Index      string `validate:"omitempty,number"`
	Attempt    string `validate:"omitempty,number"`
	SelectedAt string `validate:"omitempty,number"`
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
