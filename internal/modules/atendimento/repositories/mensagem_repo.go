package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

type MensagemRepo interface {
	Create(mensagem *models.Mensagem) error
	// CreateIdempotent inserts the inbound message unless one with the same
	// gateway id already exists. On conflict it loads the existing row into
	// mensagem and returns created=false.
	CreateIdempotent(mensagem *models.Mensagem) (created bool, err error)
}

type mensagemRepo struct {
	db *gorm.DB
}

func NewMensagemRepo(db *gorm.DB) MensagemRepo {
	return &mensagemRepo{db: db}
}

func (r *mensagemRepo) Create(mensagem *models.Mensagem) error {
	return r.db.Create(mensagem).Error
}

func (r *mensagemRepo) CreateIdempotent(mensagem *models.Mensagem) (bool, error) {
	if mensagem.GatewayID == nil {
		return true, r.db.Create(mensagem).Error
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway_id"}},
		DoNothing: true,
	}).Create(mensagem)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// Redelivered event: hand back the row stored by the first delivery.
	var existing models.Mensagem
	err := r.db.Where("gateway_id = ?", *mensagem.GatewayID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errors.New("mensagem duplicada não encontrada após conflito")
	}
	if err != nil {
		return false, err
	}
	*mensagem = existing
	return false, nil
}
