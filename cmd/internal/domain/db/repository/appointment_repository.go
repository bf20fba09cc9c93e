package repository

import (
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrSlotTaken is returned by Create when another occupying appointment
// already holds the same doctor, date and slot.
var ErrSlotTaken = errors.New("slot already taken")

type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Date      string
	Status    scheduling.Status
	Limit     int
	Offset    int
}

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindOccupiedSlots returns the slot start times held on a date.
func (a *DefaultAppointmentRepository) FindOccupiedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	var slots []string
	err := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Where("appointment_date = ?", date).
		Where("status IN ?", scheduling.OccupyingStatuses).
		Order("slot asc").
		Pluck("slot", &slots).Error
	return slots, err
}

// FindOccupiedInRange groups occupied slot start times by date for
// from <= date < to.
func (a *DefaultAppointmentRepository) FindOccupiedInRange(ctx context.Context, doctorID, from, to string) (map[string][]string, error) {
	var rows []*entity.Appointment
	err := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Select("appointment_date, slot").
		Where("doctor_id = ?", doctorID).
		Where("appointment_date >= ? AND appointment_date < ?", from, to).
		Where("status IN ?", scheduling.OccupyingStatuses).
		Order("appointment_date asc, slot asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]string)
	for _, r := range rows {
		byDate[r.AppointmentDate] = append(byDate[r.AppointmentDate], r.Slot)
	}
	return byDate, nil
}

func (a *DefaultAppointmentRepository) Find(ctx context.Context, f AppointmentFilter) ([]*entity.Appointment, error) {
	q := a.db.WithContext(ctx).Model(&entity.Appointment{})
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Date != "" {
		q = q.Where("appointment_date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var appts []*entity.Appointment
	err := q.Order("appointment_date asc, slot asc, created_at asc").Find(&appts).Error
	return appts, err
}

// Create inserts a single row. The partial unique index decides races
// between concurrent bookings of the same slot: the loser gets ErrSlotTaken.
func (a *DefaultAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := a.db.WithContext(ctx).Omit("Doctor", "Patient").Create(appointment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s %s %s", ErrSlotTaken, appointment.DoctorID, appointment.AppointmentDate, appointment.Slot)
	}
	return err
}

// UpdateStatus moves an appointment from one status to another only if it
// is still in from. It reports false when another writer got there first.
func (a *DefaultAppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to scheduling.Status, updatedAt int64) (bool, error) {
	res := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": updatedAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
