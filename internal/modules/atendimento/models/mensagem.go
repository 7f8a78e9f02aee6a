package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sender types for messages.
const (
	RemetenteCliente = "cliente"
	RemetenteAgente  = "agente"
	RemetenteSistema = "sistema"
)

// Mensagem is an immutable inbound or outbound text unit linked to a
// conversation. GatewayID carries the gateway's message id; the global
// unique index on it makes webhook redelivery idempotent. Gateway message
// ids are unique across the Evolution deployment, so no per-company scope
// is needed.
type Mensagem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversaID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversa_id"`
	Conteudo      string         `gorm:"type:text;not null" json:"conteudo"`
	RemetenteTipo string         `gorm:"type:text;not null;default:'cliente'" json:"remetente_tipo"`
	RemetenteID   *uuid.UUID     `gorm:"type:uuid" json:"remetente_id"`
	GatewayID     *string        `gorm:"type:text;uniqueIndex:ux_mensagens_gateway_id" json:"gateway_id"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Conversa Conversa `gorm:"foreignKey:ConversaID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Mensagem) TableName() string {
	return "mensagens"
}

func (m *Mensagem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MensagemMetadata is the jsonb payload stored alongside inbound messages
// for idempotency/audit.
type MensagemMetadata struct {
	MessageID   string `json:"message_id,omitempty"`
	TimestampMs int64  `json:"timestamp_ms,omitempty"`
	PushName    string `json:"push_name,omitempty"`
	Instance    string `json:"instance,omitempty"`
}
