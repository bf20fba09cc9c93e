package service

import (
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"carebook/cmd/internal/utils"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	Find(ctx context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, error)
	FindOccupiedSlots(ctx context.Context, doctorID, date string) ([]string, error)
	FindOccupiedInRange(ctx context.Context, doctorID, from, to string) (map[string][]string, error)
	UpdateStatus(ctx context.Context, id string, from, to scheduling.Status, updatedAt int64) (bool, error)
}

// AvailabilityResolver is the part of the availability service booking
// relies on.
type AvailabilityResolver interface {
	Resolve(ctx context.Context, doctorID string, date time.Time) (*Availability, error)
}

type AppointmentRequest struct {
	DoctorID        string `json:"doctorId" validate:"required,max=64"`
	PatientID       string `json:"patientId" validate:"required,max=64"`
	AppointmentDate string `json:"appointmentDate" validate:"required,isodate"`
	Slot            string `json:"slot" validate:"required,hhmm"`
	AppointmentType string `json:"appointmentType" validate:"max=64"`
	Notes           string `json:"notes" validate:"max=2000"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,apptstatus"`
}

type AppointmentQuery struct {
	DoctorID  string `query:"doctorId" json:"doctorId" validate:"max=64"`
	PatientID string `query:"patientId" json:"patientId" validate:"max=64"`
	Date      string `query:"date" json:"date" validate:"omitempty,isodate"`
	Status    string `query:"status" json:"status" validate:"omitempty,apptstatus"`
	Limit     int    `query:"limit" json:"limit" validate:"gte=0,lte=500"`
	Offset    int    `query:"offset" json:"offset" validate:"gte=0"`
}

type AppointmentResponse struct {
	ID              string  `json:"id"`
	DoctorID        string  `json:"doctorId"`
	PatientID       string  `json:"patientId"`
	AppointmentDate string  `json:"appointmentDate"`
	Slot            string  `json:"slot"`
	SlotEnd         string  `json:"slotEnd"`
	Status          string  `json:"status"`
	AppointmentType string  `json:"appointmentType"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	DoctorRepo      DoctorRepository
	PatientRepo     PatientRepository
	Availability    AvailabilityResolver
	Validate        *validator.Validate
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, doctorRepo DoctorRepository, patientRepo PatientRepository, availability AvailabilityResolver, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		DoctorRepo:      doctorRepo,
		PatientRepo:     patientRepo,
		Availability:    availability,
		Validate:        validate,
		Now:             time.Now,
	}
}

// CreateAppointment books one slot. The slot is checked against the
// doctor's current template and bookings, then written with a single
// insert; if a concurrent booking wins the race the insert is rejected by
// the store and the caller gets SlotUnavailable. Nothing is retried here.
func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	date, err := scheduling.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	start, err := scheduling.ParseClock(req.Slot)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	if apierr := a.checkReferences(ctx, req.DoctorID, req.PatientID); apierr != nil {
		return nil, apierr
	}

	if a.isPast(date, start) {
		return nil, apierror.AppointmentInPastError
	}

	avail, err := a.Availability.Resolve(ctx, req.DoctorID, date)
	if err != nil {
		log.Errorf("failed to resolve availability of doctor %s on %s: %v", req.DoctorID, req.AppointmentDate, err)
		return nil, apierror.InternalServerError
	}
	if !avail.Working {
		return nil, apierror.InvalidSlotError
	}

	slot, ok := scheduling.SlotAt(avail.Template, start)
	if !ok {
		return nil, apierror.InvalidSlotError
	}
	if avail.Occupied[start] {
		return nil, apierror.SlotUnavailableError
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		ID:              uuid.NewString(),
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentDate: req.AppointmentDate,
		Slot:            slot.Start.String(),
		SlotEnd:         slot.End.String(),
		Status:          scheduling.StatusScheduled,
		AppointmentType: req.AppointmentType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Notes != "" {
		appointment.Notes = &req.Notes
	}

	err = a.AppointmentRepo.Create(ctx, appointment)
	if errors.Is(err, repository.ErrSlotTaken) {
		return nil, apierror.SlotUnavailableError
	}
	if err != nil {
		log.Errorf("failed to save appointment for doctor %s on %s %s: %v", req.DoctorID, req.AppointmentDate, req.Slot, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) GetAppointment(ctx context.Context, id string) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) GetAppointments(ctx context.Context, query *AppointmentQuery) ([]*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := a.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appts, err := a.AppointmentRepo.Find(ctx, repository.AppointmentFilter{
		DoctorID:  query.DoctorID,
		PatientID: query.PatientID,
		Date:      query.Date,
		Status:    scheduling.Status(query.Status),
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		log.Errorf("failed to find appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

// UpdateStatus applies a lifecycle transition. The write only succeeds if
// the appointment is still in the status that was validated, so two
// concurrent transitions cannot both apply.
func (a *DefaultAppointmentService) UpdateStatus(ctx context.Context, id string, req *StatusRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	return a.transition(ctx, id, scheduling.Status(req.Status))
}

// CancelAppointment frees the slot; the row itself is kept.
func (a *DefaultAppointmentService) CancelAppointment(ctx context.Context, id string) (*AppointmentResponse, apierror.ErrorResponse) {
	return a.transition(ctx, id, scheduling.StatusCancelled)
}

func (a *DefaultAppointmentService) transition(ctx context.Context, id string, to scheduling.Status) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}

	if apierr := toTransitionError(scheduling.CanTransition(appt.Status, to)); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	applied, err := a.AppointmentRepo.UpdateStatus(ctx, appt.ID, appt.Status, to, now)
	if err != nil {
		log.Errorf("failed to move appointment %s from %s to %s: %v", appt.ID, appt.Status, to, err)
		return nil, apierror.InternalServerError
	}
	if !applied {
		return nil, apierror.InvalidTransitionError
	}

	appt.Status = to
	appt.UpdatedAt = now
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) checkReferences(ctx context.Context, doctorID, patientID string) apierror.ErrorResponse {
	doctor, err := a.DoctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", doctorID, err)
		return apierror.InternalServerError
	}
	if doctor == nil {
		return apierror.DoctorNotFoundError
	}

	patient, err := a.PatientRepo.FindByID(ctx, patientID)
	if err != nil {
		log.Errorf("failed to fetch patient %s: %v", patientID, err)
		return apierror.InternalServerError
	}
	if patient == nil {
		return apierror.PatientNotFoundError
	}
	return nil
}

// isPast compares wall-clock values: earlier dates are past, and so are
// slots today that have already started.
func (a *DefaultAppointmentService) isPast(date time.Time, start scheduling.Clock) bool {
	now := a.Now()
	today := utils.StartOfDay(now)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return true
	}
	if day.Equal(today) {
		return int(start) <= now.Hour()*60+now.Minute()
	}
	return false
}

func toTransitionError(err error) apierror.ErrorResponse {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scheduling.ErrTerminalStatus):
		return apierror.TerminalStatusError
	case errors.Is(err, scheduling.ErrInvalidTransition):
		return apierror.InvalidTransitionError
	default:
		return apierror.NewInvalidParamError("status", "must be a known appointment status")
	}
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              appt.ID,
		DoctorID:        appt.DoctorID,
		PatientID:       appt.PatientID,
		AppointmentDate: appt.AppointmentDate,
		Slot:            appt.Slot,
		SlotEnd:         appt.SlotEnd,
		Status:          string(appt.Status),
		AppointmentType: appt.AppointmentType,
		Notes:           appt.Notes,
		CreatedAt:       utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(appt.UpdatedAt),
	}
}
