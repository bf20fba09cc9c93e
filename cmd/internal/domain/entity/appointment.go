package entity

import "carebook/cmd/internal/domain/scheduling"

// Appointment is never deleted; cancellation is a status change.
// At most one row per (doctor_id, appointment_date, slot) may hold an
// occupying status, see db.liveSlotIndex.
type Appointment struct {
	ID              string            `gorm:"primaryKey;size:36"`
	DoctorID        string            `gorm:"not null;size:64;index:idx_appointments_doctor_date"` // References: doctors(id)
	PatientID       string            `gorm:"not null;size:64;index"`                              // References: patients(id)
	AppointmentDate string            `gorm:"not null;size:10;index:idx_appointments_doctor_date"` // YYYY-MM-DD
	Slot            string            `gorm:"not null;size:5"`                                     // HH:MM start
	SlotEnd         string            `gorm:"not null;size:5"`
	Status          scheduling.Status `gorm:"not null;size:16;index"`
	AppointmentType string            `gorm:"size:64"`
	Notes           *string
	CreatedAt       int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Doctor  Doctor  `gorm:"foreignKey:DoctorID;references:ID"`
	Patient Patient `gorm:"foreignKey:PatientID;references:ID"`
}
