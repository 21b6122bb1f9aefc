package controller

import (
	"time"

	"techgear-support-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type systemController struct {
	name    string
	version string
}

func NewSystemController(name, version string) ISystemController {
	return &systemController{name: name, version: version}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
}

func (c *systemController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.ServiceInfoResponse{
		Name:    c.name,
		Version: c.version,
		Status:  "active",
		Endpoints: map[string]string{
			"chat":       "/api/chat",
			"categories": "/api/categories",
			"products":   "/api/products",
			"token":      "/api/auth/token",
			"health":     "/health",
			"websocket":  "/ws/chat",
		},
	})
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:    "healthy",
		Version:   c.version,
		Timestamp: time.Now().UTC(),
	})
}
