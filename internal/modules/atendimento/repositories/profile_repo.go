package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

type ProfileRepo interface {
	// GetByID returns (nil, nil) when the profile does not exist.
	GetByID(id uuid.UUID) (*models.Profile, error)
	// ListOnlineByEmpresa returns all online company users with a role that
	// can receive conversations.
	ListOnlineByEmpresa(empresaID uuid.UUID) ([]models.Profile, error)
	// Heartbeat marks the agent online and bumps ultimo_acesso.
	Heartbeat(id uuid.UUID) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) ListOnlineByEmpresa(empresaID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Where("empresa_id = ? AND status = ? AND cargo IN ?",
		empresaID, models.PresencaOnline, models.AtendimentoCargos).
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) Heartbeat(id uuid.UUID) error {
	now := time.Now()
	res := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.PresencaOnline,
			"ultimo_acesso": now,
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
