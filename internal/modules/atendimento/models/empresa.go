package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Empresa is the tenant that owns contacts, conversations and agents.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Nome      string    `gorm:"type:text;not null" json:"nome"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Empresa) TableName() string {
	return "empresas"
}

func (e *Empresa) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
