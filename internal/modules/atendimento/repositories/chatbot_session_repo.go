package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

type ChatbotSessionRepo interface {
	// GetAtivaByConversa returns the active session for a conversation,
	// or (nil, nil).
	GetAtivaByConversa(conversaID uuid.UUID) (*models.ChatbotSession, error)
	// Upsert creates the session for a conversation or updates its status,
	// flow and current node.
	Upsert(session *models.ChatbotSession) error
}

type chatbotSessionRepo struct {
	db *gorm.DB
}

func NewChatbotSessionRepo(db *gorm.DB) ChatbotSessionRepo {
	return &chatbotSessionRepo{db: db}
}

func (r *chatbotSessionRepo) GetAtivaByConversa(conversaID uuid.UUID) (*models.ChatbotSession, error) {
	var session models.ChatbotSession
	err := r.db.Where("conversa_id = ? AND status = ?", conversaID, models.SessaoAtiva).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *chatbotSessionRepo) Upsert(session *models.ChatbotSession) error {
	session.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversa_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "fluxo_id", "no_atual", "updated_at",
		}),
	}).Create(session).Error
}
