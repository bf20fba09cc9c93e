package repository

import (
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *DefaultScheduleRepository {
	return &DefaultScheduleRepository{db: db}
}

func (s *DefaultScheduleRepository) FindByDoctorAndDay(ctx context.Context, doctorID string, day scheduling.Weekday) (*entity.WeeklyTemplate, error) {
	var tpl entity.WeeklyTemplate
	err := s.db.WithContext(ctx).
		Preload("Breaks", orderBreaks).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *DefaultScheduleRepository) FindByDoctor(ctx context.Context, doctorID string) ([]*entity.WeeklyTemplate, error) {
	var tpls []*entity.WeeklyTemplate
	err := s.db.WithContext(ctx).
		Preload("Breaks", orderBreaks).
		Where("doctor_id = ?", doctorID).
		Find(&tpls).Error
	return tpls, err
}

// ReplaceForDoctor swaps a doctor's whole week in one transaction, so
// readers see either the old week or the new one.
func (s *DefaultScheduleRepository) ReplaceForDoctor(ctx context.Context, doctorID string, tpls []*entity.WeeklyTemplate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&entity.WeeklyTemplate{}).Select("id").Where("doctor_id = ?", doctorID)
		if err := tx.Where("template_id IN (?)", old).Delete(&entity.TemplateBreak{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&entity.WeeklyTemplate{}).Error; err != nil {
			return err
		}
		if len(tpls) == 0 {
			return nil
		}
		return tx.Create(&tpls).Error
	})
}

func orderBreaks(db *gorm.DB) *gorm.DB {
	return db.Order("break_start asc")
}
