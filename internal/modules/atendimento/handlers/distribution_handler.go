package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/services"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

type DistributionHandler struct {
	distribution *services.DistributionService
}

func NewDistributionHandler(distribution *services.DistributionService) *DistributionHandler {
	return &DistributionHandler{distribution: distribution}
}

type distributionRequest struct {
	ConversaID   string      `json:"conversa_id"`
	NovaMensagem interface{} `json:"nova_mensagem"`
}

// Distribute handles POST /distribuicao.
func (h *DistributionHandler) Distribute(c *fiber.Ctx) error {
	var req distributionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "payload inválido",
		})
	}

	if req.ConversaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "conversa_id é obrigatório",
		})
	}

	conversaID, err := uuid.Parse(req.ConversaID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "conversa_id inválido",
		})
	}

	result, err := h.distribution.Distribute(conversaID)
	if errors.Is(err, services.ErrConversaNaoEncontrada) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Conversa não encontrada",
		})
	}
	if errors.Is(err, services.ErrConversaEncerrada) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Conversa já finalizada",
		})
	}
	if err != nil {
		utils.LogError("falha na distribuição", err, map[string]interface{}{
			"conversa_id": conversaID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	resp := fiber.Map{
		"success": true,
		"action":  result.Action,
		"message": result.Message,
	}
	if result.AgenteID != nil {
		resp["agente"] = result.AgenteNome
		resp["agente_id"] = result.AgenteID
	}
	return c.JSON(resp)
}
