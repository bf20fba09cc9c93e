package repository

import (
	"carebook/cmd/internal/domain/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultPatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *DefaultPatientRepository {
	return &DefaultPatientRepository{db: db}
}

func (p *DefaultPatientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	var patient entity.Patient
	err := p.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (p *DefaultPatientRepository) Save(ctx context.Context, patient *entity.Patient) error {
	return p.db.WithContext(ctx).Save(patient).Error
}

func (p *DefaultPatientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&entity.Patient{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
