package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/flowengine"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
)

// ChatbotService decides, per inbound message, whether the external flow
// engine should run or the message is left for human agents.
type ChatbotService struct {
	sessionRepo repositories.ChatbotSessionRepo
	flow        flowengine.Client
}

func NewChatbotService(sessionRepo repositories.ChatbotSessionRepo, flow flowengine.Client) *ChatbotService {
	return &ChatbotService{
		sessionRepo: sessionRepo,
		flow:        flow,
	}
}

// HandleInbound triggers the flow engine for a new conversation, advances
// an active session with the customer's text, or does nothing. The first
// return reports whether the engine was actually called.
func (s *ChatbotService) HandleInbound(conversaID uuid.UUID, texto string, novaConversa bool) (bool, error) {
	if novaConversa {
		err := s.flow.Trigger(flowengine.TriggerRequest{
			ConversaID:   conversaID,
			IniciarFluxo: true,
		})
		return err == nil, err
	}

	session, err := s.sessionRepo.GetAtivaByConversa(conversaID)
	if err != nil {
		return false, err
	}
	if session == nil {
		// No active flow: leave the message for human handling.
		return false, nil
	}

	err = s.flow.Trigger(flowengine.TriggerRequest{
		ConversaID:      conversaID,
		MensagemCliente: texto,
	})
	return err == nil, err
}

// SessaoRequest is the flow engine's callback to record session state.
type SessaoRequest struct {
	ConversaID uuid.UUID  `json:"conversa_id"`
	Status     string     `json:"status"`
	FluxoID    *uuid.UUID `json:"fluxo_id"`
	NoAtual    string     `json:"no_atual"`
}

// AtualizarSessao upserts the chatbot session for a conversation.
func (s *ChatbotService) AtualizarSessao(req SessaoRequest) (*models.ChatbotSession, error) {
	if req.Status != models.SessaoAtiva && req.Status != models.SessaoFinalizada {
		return nil, fmt.Errorf("status de sessão inválido: %s", req.Status)
	}

	session := &models.ChatbotSession{
		ConversaID: req.ConversaID,
		FluxoID:    req.FluxoID,
		Status:     req.Status,
		NoAtual:    req.NoAtual,
	}
	if err := s.sessionRepo.Upsert(session); err != nil {
		return nil, err
	}
	return session, nil
}
