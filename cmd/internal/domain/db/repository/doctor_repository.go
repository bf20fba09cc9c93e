package repository

import (
	"carebook/cmd/internal/domain/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultDoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DefaultDoctorRepository {
	return &DefaultDoctorRepository{db: db}
}

func (d *DefaultDoctorRepository) FindByID(ctx context.Context, id string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := d.db.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (d *DefaultDoctorRepository) Save(ctx context.Context, doctor *entity.Doctor) error {
	return d.db.WithContext(ctx).Omit("WeeklyTemplates").Save(doctor).Error
}

func (d *DefaultDoctorRepository) FindAll(ctx context.Context) ([]*entity.Doctor, error) {
	var doctors []*entity.Doctor
	err := d.db.WithContext(ctx).Order("name asc").Find(&doctors).Error
	return doctors, err
}

func (d *DefaultDoctorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&entity.Doctor{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
