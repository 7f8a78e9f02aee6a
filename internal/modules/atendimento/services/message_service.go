package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/gateway"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
)

// ErrContatoNaoEncontrado is returned when the conversation's contact row
// is missing.
var ErrContatoNaoEncontrado = errors.New("contato não encontrado")

// InstanceResolver maps a company to its gateway instance name.
type InstanceResolver interface {
	InstanceForEmpresa(empresaID uuid.UUID) (string, error)
}

// MessageService sends agent messages out through the gateway and records
// them on the conversation.
type MessageService struct {
	conversaRepo repositories.ConversaRepo
	contatoRepo  repositories.ContatoRepo
	mensagemRepo repositories.MensagemRepo
	instances    InstanceResolver
	gateway      *gateway.Service
}

func NewMessageService(
	conversaRepo repositories.ConversaRepo,
	contatoRepo repositories.ContatoRepo,
	mensagemRepo repositories.MensagemRepo,
	instances InstanceResolver,
	gatewayService *gateway.Service,
) *MessageService {
	return &MessageService{
		conversaRepo: conversaRepo,
		contatoRepo:  contatoRepo,
		mensagemRepo: mensagemRepo,
		instances:    instances,
		gateway:      gatewayService,
	}
}

// EnviarTexto delivers an outbound text to the conversation's contact via
// the gateway and stores the resulting message.
func (s *MessageService) EnviarTexto(conversaID uuid.UUID, conteudo string, agenteID *uuid.UUID) (*models.Mensagem, error) {
	conversa, err := s.conversaRepo.GetByID(conversaID)
	if err != nil {
		return nil, err
	}
	if conversa == nil {
		return nil, ErrConversaNaoEncontrada
	}

	contato, err := s.contatoRepo.GetByID(conversa.ContatoID)
	if err != nil {
		return nil, err
	}
	if contato == nil {
		return nil, ErrContatoNaoEncontrado
	}

	instance, err := s.instances.InstanceForEmpresa(conversa.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao resolver instância do gateway: %w", err)
	}

	gatewayID, err := s.gateway.SendText(instance, contato.Telefone, conteudo)
	if err != nil {
		return nil, fmt.Errorf("falha ao enviar mensagem pelo gateway: %w", err)
	}

	metadata, err := json.Marshal(models.MensagemMetadata{
		MessageID: gatewayID,
		Instance:  instance,
	})
	if err != nil {
		return nil, err
	}

	mensagem := &models.Mensagem{
		ConversaID:    conversaID,
		Conteudo:      conteudo,
		RemetenteTipo: models.RemetenteAgente,
		RemetenteID:   agenteID,
		Metadata:      datatypes.JSON(metadata),
	}
	if gatewayID != "" {
		mensagem.GatewayID = &gatewayID
	}
	if err := s.mensagemRepo.Create(mensagem); err != nil {
		return nil, fmt.Errorf("falha ao gravar mensagem enviada: %w", err)
	}

	if err := s.conversaRepo.Touch(conversaID); err != nil {
		return nil, err
	}

	return mensagem, nil
}
