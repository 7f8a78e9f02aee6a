package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
)

type PresenceHandler struct {
	profileRepo repositories.ProfileRepo
}

func NewPresenceHandler(profileRepo repositories.ProfileRepo) *PresenceHandler {
	return &PresenceHandler{profileRepo: profileRepo}
}

type heartbeatRequest struct {
	AgenteID string `json:"agente_id"`
}

// Heartbeat handles POST /presenca: marks the agent online and refreshes
// ultimo_acesso, which the distribution engine reads for eligibility.
func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	var req heartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "payload inválido",
		})
	}

	agenteID, err := uuid.Parse(req.AgenteID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "agente_id inválido",
		})
	}

	if err := h.profileRepo.Heartbeat(agenteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Agente não encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
