package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contato is a customer identity keyed by normalized phone number,
// unique per company. Created on first inbound message, never deleted
// by this service.
type Contato struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_contatos_empresa_telefone,priority:1" json:"empresa_id"`
	Telefone  string    `gorm:"type:text;not null;uniqueIndex:ux_contatos_empresa_telefone,priority:2" json:"telefone"`
	Nome      string    `gorm:"type:text;not null" json:"nome"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Empresa Empresa `gorm:"foreignKey:EmpresaID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Contato) TableName() string {
	return "contatos"
}

func (c *Contato) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NormalizePhone strips everything but digits from a phone number or
// WhatsApp JID (e.g. "5511999999999@s.whatsapp.net" -> "5511999999999").
// Idempotent: normalizing twice yields the same value.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
