package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/services"
)

type SessionHandler struct {
	chatbot *services.ChatbotService
}

func NewSessionHandler(chatbot *services.ChatbotService) *SessionHandler {
	return &SessionHandler{chatbot: chatbot}
}

type sessaoRequest struct {
	ConversaID string `json:"conversa_id"`
	Status     string `json:"status"`
	FluxoID    string `json:"fluxo_id"`
	NoAtual    string `json:"no_atual"`
}

// AtualizarSessao handles POST /chatbot/sessoes, the flow engine's callback
// to record session state.
func (h *SessionHandler) AtualizarSessao(c *fiber.Ctx) error {
	var req sessaoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "payload inválido",
		})
	}

	conversaID, err := uuid.Parse(req.ConversaID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "conversa_id inválido",
		})
	}

	svcReq := services.SessaoRequest{
		ConversaID: conversaID,
		Status:     req.Status,
		NoAtual:    req.NoAtual,
	}
	if req.FluxoID != "" {
		fluxoID, err := uuid.Parse(req.FluxoID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "fluxo_id inválido",
			})
		}
		svcReq.FluxoID = &fluxoID
	}

	if req.Status != "ativa" && req.Status != "finalizada" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "status deve ser 'ativa' ou 'finalizada'",
		})
	}

	session, err := h.chatbot.AtualizarSessao(svcReq)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sessao":  session,
	})
}
