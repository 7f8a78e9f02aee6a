package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

type ContatoRepo interface {
	// GetByID returns (nil, nil) when the contact does not exist.
	GetByID(id uuid.UUID) (*models.Contato, error)
	// GetByTelefone returns (nil, nil) when no contact matches.
	GetByTelefone(empresaID uuid.UUID, telefone string) (*models.Contato, error)
	Create(contato *models.Contato) error
}

type contatoRepo struct {
	db *gorm.DB
}

func NewContatoRepo(db *gorm.DB) ContatoRepo {
	return &contatoRepo{db: db}
}

func (r *contatoRepo) GetByID(id uuid.UUID) (*models.Contato, error) {
	var contato models.Contato
	err := r.db.Where("id = ?", id).First(&contato).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contato, nil
}

func (r *contatoRepo) GetByTelefone(empresaID uuid.UUID, telefone string) (*models.Contato, error) {
	var contato models.Contato
	err := r.db.Where("empresa_id = ? AND telefone = ?", empresaID, telefone).
		First(&contato).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contato, nil
}

func (r *contatoRepo) Create(contato *models.Contato) error {
	return r.db.Create(contato).Error
}
