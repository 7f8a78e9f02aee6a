package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/dedupe"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/tenant"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

// EvolutionWebhookPayload is the inbound gateway event shape.
type EvolutionWebhookPayload struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
			ID        string `json:"id"`
		} `json:"key"`
		PushName string `json:"pushName"`
		Message  struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
		} `json:"message"`
		MessageTimestamp int64 `json:"messageTimestamp"`
	} `json:"data"`
}

// Texto returns the text content of the event, if any.
func (p *EvolutionWebhookPayload) Texto() string {
	if p.Data.Message.Conversation != "" {
		return p.Data.Message.Conversation
	}
	return p.Data.Message.ExtendedTextMessage.Text
}

// TenantResolver resolves the company an event belongs to.
type TenantResolver interface {
	ResolveFromInstance(instance string) (*tenant.TenantContext, error)
}

// IngestResult reports what ingestion did with an event. The primary write
// path (contato/conversa/mensagem) either fully succeeds or the whole event
// fails; Distribution* and Chatbot* record the best-effort secondary steps
// so callers can tell full success from partial.
type IngestResult struct {
	Ignored bool
	Reason  string

	Duplicada    bool
	NovaConversa bool
	ConversaID   uuid.UUID
	MensagemID   uuid.UUID

	Distribution    *DistributionResult
	DistributionErr error

	ChatbotNotified bool
	ChatbotErr      error
}

// WebhookService turns inbound gateway events into contact, conversation
// and message writes, then hands off to distribution and the chatbot glue.
type WebhookService struct {
	contatoRepo  repositories.ContatoRepo
	conversaRepo repositories.ConversaRepo
	mensagemRepo repositories.MensagemRepo
	resolver     TenantResolver
	distribution *DistributionService
	chatbot      *ChatbotService
	dedupe       *dedupe.Cache
}

func NewWebhookService(
	contatoRepo repositories.ContatoRepo,
	conversaRepo repositories.ConversaRepo,
	mensagemRepo repositories.MensagemRepo,
	resolver TenantResolver,
	distribution *DistributionService,
	chatbot *ChatbotService,
	dedupeCache *dedupe.Cache,
) *WebhookService {
	return &WebhookService{
		contatoRepo:  contatoRepo,
		conversaRepo: conversaRepo,
		mensagemRepo: mensagemRepo,
		resolver:     resolver,
		distribution: distribution,
		chatbot:      chatbot,
		dedupe:       dedupeCache,
	}
}

// ProcessEvent ingests one gateway event. A returned error means the
// primary write path failed and the caller should answer with HTTP 500.
func (s *WebhookService) ProcessEvent(payload *EvolutionWebhookPayload) (*IngestResult, error) {
	if payload.Event != "messages.upsert" || payload.Data.Key.FromMe {
		return &IngestResult{Ignored: true, Reason: "Evento ignorado"}, nil
	}

	texto := payload.Texto()
	if texto == "" {
		return &IngestResult{Ignored: true, Reason: "Evento ignorado"}, nil
	}

	telefone := models.NormalizePhone(payload.Data.Key.RemoteJid)
	if telefone == "" {
		return &IngestResult{Ignored: true, Reason: "Evento ignorado"}, nil
	}

	if s.dedupe != nil && s.dedupe.Contains(payload.Data.Key.ID) {
		return &IngestResult{Ignored: true, Duplicada: true, Reason: "Evento duplicado ignorado"}, nil
	}

	tenantCtx, err := s.resolver.ResolveFromInstance(payload.Instance)
	if err != nil {
		return nil, fmt.Errorf("falha ao resolver empresa: %w", err)
	}

	contato, err := s.contatoRepo.GetByTelefone(tenantCtx.EmpresaID, telefone)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar contato: %w", err)
	}
	if contato == nil {
		nome := payload.Data.PushName
		if nome == "" {
			nome = "Cliente WhatsApp"
		}
		contato = &models.Contato{
			EmpresaID: tenantCtx.EmpresaID,
			Telefone:  telefone,
			Nome:      nome,
		}
		if err := s.contatoRepo.Create(contato); err != nil {
			return nil, fmt.Errorf("falha ao criar contato: %w", err)
		}
	}

	novaConversa := false
	conversa, err := s.conversaRepo.GetAbertaByContato(contato.ID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar conversa: %w", err)
	}
	if conversa == nil {
		conversa = &models.Conversa{
			EmpresaID:  tenantCtx.EmpresaID,
			ContatoID:  contato.ID,
			Status:     models.StatusAtivo,
			Canal:      models.CanalWhatsApp,
			Prioridade: models.PrioridadeNormal,
		}
		if err := s.conversaRepo.Create(conversa); err != nil {
			return nil, fmt.Errorf("falha ao criar conversa: %w", err)
		}
		novaConversa = true
	} else if err := s.conversaRepo.Touch(conversa.ID); err != nil {
		return nil, fmt.Errorf("falha ao atualizar conversa: %w", err)
	}

	mensagem, created, err := s.gravarMensagem(conversa.ID, texto, payload)
	if err != nil {
		return nil, fmt.Errorf("falha ao gravar mensagem: %w", err)
	}

	// Only a durable message write marks the id; an earlier failure must
	// leave the gateway's retry able to go through.
	if s.dedupe != nil {
		s.dedupe.Mark(payload.Data.Key.ID)
	}

	result := &IngestResult{
		NovaConversa: novaConversa,
		ConversaID:   conversa.ID,
		MensagemID:   mensagem.ID,
	}

	if !created {
		// Redelivered event that slipped past the cache: acknowledge with
		// the stored row and run no side effects again.
		result.Duplicada = true
		return result, nil
	}

	// Secondary steps are best-effort: the message is already durable.
	result.Distribution, result.DistributionErr = s.distribution.Distribute(conversa.ID)
	if result.DistributionErr != nil {
		utils.LogError("falha na distribuição da conversa", result.DistributionErr, map[string]interface{}{
			"conversa_id": conversa.ID,
		})
	}

	result.ChatbotNotified, result.ChatbotErr = s.chatbot.HandleInbound(conversa.ID, texto, novaConversa)
	if result.ChatbotErr != nil {
		utils.LogError("falha ao acionar fluxo do chatbot", result.ChatbotErr, map[string]interface{}{
			"conversa_id": conversa.ID,
		})
	}

	return result, nil
}

func (s *WebhookService) gravarMensagem(conversaID uuid.UUID, texto string, payload *EvolutionWebhookPayload) (*models.Mensagem, bool, error) {
	metadata, err := json.Marshal(models.MensagemMetadata{
		MessageID:   payload.Data.Key.ID,
		TimestampMs: payload.Data.MessageTimestamp,
		PushName:    payload.Data.PushName,
		Instance:    payload.Instance,
	})
	if err != nil {
		return nil, false, err
	}

	mensagem := &models.Mensagem{
		ConversaID:    conversaID,
		Conteudo:      texto,
		RemetenteTipo: models.RemetenteCliente,
		Metadata:      datatypes.JSON(metadata),
	}
	if payload.Data.Key.ID != "" {
		gatewayID := payload.Data.Key.ID
		mensagem.GatewayID = &gatewayID
	}

	created, err := s.mensagemRepo.CreateIdempotent(mensagem)
	if err != nil {
		return nil, false, err
	}
	return mensagem, created, nil
}
