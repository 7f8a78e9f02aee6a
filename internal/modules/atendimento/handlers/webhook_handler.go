package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/services"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

type WebhookHandler struct {
	webhookService *services.WebhookService
}

func NewWebhookHandler(webhookService *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// ReceiveWebhook handles POST /webhooks/evolution. Only messages.upsert
// events with fromMe=false are processed; everything else is acknowledged
// as ignored so the gateway does not retry.
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	var payload services.EvolutionWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		utils.LogWarn("webhook com payload inválido", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Evento ignorado",
		})
	}

	result, err := h.webhookService.ProcessEvent(&payload)
	if err != nil {
		utils.LogError("falha ao processar webhook", err, map[string]interface{}{
			"event":    payload.Event,
			"instance": payload.Instance,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if result.Ignored {
		return c.JSON(fiber.Map{
			"success": true,
			"message": result.Reason,
		})
	}

	message := "Mensagem processada"
	if result.Duplicada {
		message = "Mensagem já processada"
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"conversaId": result.ConversaID,
		"mensagemId": result.MensagemID,
	})
}
