package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/gateway"
)

type HealthHandler struct {
	gateway *gateway.Service
}

func NewHealthHandler(gatewayService *gateway.Service) *HealthHandler {
	return &HealthHandler{gateway: gatewayService}
}

// GetHealth handles GET /health.
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "amplie-atendimento-be",
		"provider": h.gateway.GetProviderName(),
	})
}
