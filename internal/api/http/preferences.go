package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/ski-tracker/internal/colormode"
)

const (
	clientCookie = "ski_tracker_client"
	// prefersSchemeHeader is the user-agent client hint for the OS theme.
	prefersSchemeHeader = "Sec-CH-Prefers-Color-Scheme"
)

type colorModeBody struct {
	Mode string `json:"mode" validate:"required,oneof=light dark"`
}

// clientID returns the caller's id, issuing a cookie on first contact.
func clientID(c *fiber.Ctx) string {
	if id := c.Cookies(clientCookie); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     clientCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

func (h *handlers) colorMode(c *fiber.Ctx) *colormode.Context {
	fallback := colormode.Default
	if m, err := colormode.ParseMode(c.Get(prefersSchemeHeader)); err == nil {
		fallback = m
	}
	key := colormode.KeyFor(clientID(c))
	return colormode.LoadOr(c.UserContext(), h.ColorModes, key, fallback, h.Log)
}

func (h *handlers) getColorMode(c *fiber.Ctx) error {
	c.Set(fiber.HeaderVary, prefersSchemeHeader)
	return c.JSON(fiber.Map{"mode": h.colorMode(c).Mode()})
}

func (h *handlers) putColorMode(c *fiber.Ctx) error {
	var body colorModeBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	mode, _ := colormode.ParseMode(body.Mode)

	cm := h.colorMode(c)
	if err := cm.SetMode(c.UserContext(), mode); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "failed to save color mode")
	}
	return c.JSON(fiber.Map{"mode": cm.Mode()})
}

func (h *handlers) toggleColorMode(c *fiber.Ctx) error {
	mode, err := h.colorMode(c).Toggle(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "failed to save color mode")
	}
	return c.JSON(fiber.Map{"mode": mode})
}
