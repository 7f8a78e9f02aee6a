package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

type ConversaRepo interface {
	// GetByID returns (nil, nil) when the conversation does not exist.
	GetByID(id uuid.UUID) (*models.Conversa, error)
	// GetAbertaByContato returns the most recently updated open
	// conversation for a contact, or (nil, nil).
	GetAbertaByContato(contatoID uuid.UUID) (*models.Conversa, error)
	Create(conversa *models.Conversa) error
	// Touch bumps updated_at on message arrival.
	Touch(id uuid.UUID) error
	// MoverParaFila sets the conversation to pendente with no agent.
	MoverParaFila(id uuid.UUID) error
	// AtribuirAgente assigns the conversation to the agent only if the
	// agent's live workload is still below limite. Returns false when the
	// guard fails (candidate lost to a concurrent assignment).
	AtribuirAgente(conversaID, agenteID uuid.UUID, limite int) (bool, error)
	// CountAtendimentosByAgente counts the agent's conversations with
	// status ativo or em-atendimento.
	CountAtendimentosByAgente(agenteID uuid.UUID) (int64, error)
	// ListPendentes returns queued conversations, oldest first.
	ListPendentes(limit int) ([]models.Conversa, error)
}

type conversaRepo struct {
	db *gorm.DB
}

func NewConversaRepo(db *gorm.DB) ConversaRepo {
	return &conversaRepo{db: db}
}

func (r *conversaRepo) GetByID(id uuid.UUID) (*models.Conversa, error) {
	var conversa models.Conversa
	err := r.db.Where("id = ?", id).First(&conversa).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversa, nil
}

func (r *conversaRepo) GetAbertaByContato(contatoID uuid.UUID) (*models.Conversa, error) {
	var conversa models.Conversa
	err := r.db.Where("contato_id = ? AND status IN ?", contatoID, models.AbertoStatuses).
		Order("updated_at DESC").
		First(&conversa).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversa, nil
}

func (r *conversaRepo) Create(conversa *models.Conversa) error {
	return r.db.Create(conversa).Error
}

func (r *conversaRepo) Touch(id uuid.UUID) error {
	return r.db.Model(&models.Conversa{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *conversaRepo) MoverParaFila(id uuid.UUID) error {
	return r.db.Model(&models.Conversa{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.StatusPendente,
			"agente_id":  nil,
			"updated_at": time.Now(),
		}).Error
}

func (r *conversaRepo) AtribuirAgente(conversaID, agenteID uuid.UUID, limite int) (bool, error) {
	// Single conditional UPDATE: the workload guard and the assignment are
	// one statement, so two racing distributions cannot both push the same
	// agent past the limit.
	res := r.db.Exec(`
		UPDATE conversas
		SET agente_id = ?, status = ?, updated_at = NOW()
		WHERE id = ?
		AND (
			SELECT COUNT(*) FROM conversas
			WHERE agente_id = ? AND status IN ('ativo', 'em-atendimento')
		) < ?
	`, agenteID, models.StatusEmAtendimento, conversaID, agenteID, limite)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *conversaRepo) CountAtendimentosByAgente(agenteID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Conversa{}).
		Where("agente_id = ? AND status IN ?", agenteID, models.AtendimentoStatuses).
		Count(&count).Error
	return count, err
}

func (r *conversaRepo) ListPendentes(limit int) ([]models.Conversa, error) {
	var conversas []models.Conversa
	err := r.db.Where("status = ?", models.StatusPendente).
		Order("updated_at ASC").
		Limit(limit).
		Find(&conversas).Error
	return conversas, err
}
