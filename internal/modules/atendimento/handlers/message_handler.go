package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/services"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type enviarMensagemRequest struct {
	ConversaID string `json:"conversa_id"`
	Conteudo   string `json:"conteudo"`
	AgenteID   string `json:"agente_id"`
}

// EnviarMensagem handles POST /mensagens/enviar.
func (h *MessageHandler) EnviarMensagem(c *fiber.Ctx) error {
	var req enviarMensagemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "payload inválido",
		})
	}

	if req.ConversaID == "" || req.Conteudo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "conversa_id e conteudo são obrigatórios",
		})
	}

	conversaID, err := uuid.Parse(req.ConversaID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "conversa_id inválido",
		})
	}

	var agenteID *uuid.UUID
	if req.AgenteID != "" {
		parsed, err := uuid.Parse(req.AgenteID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "agente_id inválido",
			})
		}
		agenteID = &parsed
	}

	mensagem, err := h.messages.EnviarTexto(conversaID, req.Conteudo, agenteID)
	if errors.Is(err, services.ErrConversaNaoEncontrada) || errors.Is(err, services.ErrContatoNaoEncontrado) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if err != nil {
		utils.LogError("falha ao enviar mensagem", err, map[string]interface{}{
			"conversa_id": conversaID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Mensagem enviada",
		"mensagemId": mensagem.ID,
	})
}
