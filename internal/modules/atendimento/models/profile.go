package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles for company users.
const (
	CargoAgente     = "agente"
	CargoSupervisor = "supervisor"
	CargoAdmin      = "admin"
)

// Presence statuses.
const (
	PresencaOnline  = "online"
	PresencaOffline = "offline"
)

// AtendimentoCargos are the roles that can receive conversations.
var AtendimentoCargos = []string{CargoAgente, CargoSupervisor, CargoAdmin}

// Profile is a company user. Presence (Status + UltimoAcesso) is written
// by heartbeats; the distribution engine only reads it.
type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EmpresaID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"empresa_id"`
	Nome         string     `gorm:"type:text;not null" json:"nome"`
	Email        string     `gorm:"type:text;not null" json:"email"`
	Cargo        string     `gorm:"type:text;not null;default:'agente'" json:"cargo"`
	Status       string     `gorm:"type:text;not null;default:'offline';index" json:"status"`
	Setor        *string    `gorm:"type:text" json:"setor"`
	UltimoAcesso *time.Time `json:"ultimo_acesso"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Empresa Empresa `gorm:"foreignKey:EmpresaID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
