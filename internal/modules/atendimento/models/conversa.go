package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation statuses. Wire values are Portuguese, matching the product.
const (
	StatusAtivo         = "ativo"
	StatusEmAtendimento = "em-atendimento"
	StatusPendente      = "pendente"
	StatusFinalizado    = "finalizado"
)

const (
	CanalWhatsApp    = "whatsapp"
	PrioridadeNormal = "normal"
)

// AbertoStatuses are the statuses considered "open" when looking for an
// existing conversation for a contact.
var AbertoStatuses = []string{StatusAtivo, StatusEmAtendimento, StatusPendente}

// AtendimentoStatuses count toward an agent's workload.
var AtendimentoStatuses = []string{StatusAtivo, StatusEmAtendimento}

// Conversa is one ongoing or closed interaction between a contact and a
// company. At most one open conversation per contact is expected; this is
// enforced by lookup order, not by a database constraint.
type Conversa struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EmpresaID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"empresa_id"`
	ContatoID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"contato_id"`
	AgenteID   *uuid.UUID `gorm:"type:uuid;index" json:"agente_id"`
	Status     string     `gorm:"type:text;not null;default:'ativo';index" json:"status"`
	Canal      string     `gorm:"type:text;not null;default:'whatsapp'" json:"canal"`
	Prioridade string     `gorm:"type:text;not null;default:'normal'" json:"prioridade"`
	Setor      *string    `gorm:"type:text" json:"setor"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Contato Contato `gorm:"foreignKey:ContatoID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Conversa) TableName() string {
	return "conversas"
}

func (c *Conversa) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EmAtendimento reports whether the conversation is being worked
// (counts toward an agent's workload).
func (c *Conversa) EmAtendimento() bool {
	return c.Status == StatusAtivo || c.Status == StatusEmAtendimento
}
