package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chatbot session statuses.
const (
	SessaoAtiva      = "ativa"
	SessaoFinalizada = "finalizada"
)

// ChatbotSession tracks whether a conversation currently has an automated
// flow attached. The flow engine owns the step semantics; this service only
// reads the status to decide bot-vs-human routing.
type ChatbotSession struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversaID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"conversa_id"`
	FluxoID    *uuid.UUID `gorm:"type:uuid" json:"fluxo_id"`
	Status     string     `gorm:"type:text;not null;default:'ativa'" json:"status"`
	NoAtual    string     `gorm:"type:text" json:"no_atual"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Conversa Conversa `gorm:"foreignKey:ConversaID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChatbotSession) TableName() string {
	return "chatbot_sessions"
}

func (s *ChatbotSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
