package service

import (
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

// ReasonNotWorkingDay tells the caller the doctor has no enabled template
// for that weekday, as opposed to a working day with every slot taken.
const ReasonNotWorkingDay = "NotWorkingDay"

type ScheduleRepository interface {
	FindByDoctorAndDay(ctx context.Context, doctorID string, day scheduling.Weekday) (*entity.WeeklyTemplate, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]*entity.WeeklyTemplate, error)
	ReplaceForDoctor(ctx context.Context, doctorID string, tpls []*entity.WeeklyTemplate) error
}

type DoctorRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Doctor, error)
}

type PatientRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Patient, error)
}

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	Success        bool            `json:"success"`
	DoctorID       string          `json:"doctorId"`
	Date           string          `json:"date"`
	AvailableSlots []*SlotResponse `json:"availableSlots"`
	Reason         string          `json:"reason,omitempty"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"dayOfWeek"`
	Working   bool   `json:"working"`
	FreeSlots int    `json:"freeSlots"`
}

type CalendarResponse struct {
	DoctorID string         `json:"doctorId"`
	Month    string         `json:"month"`
	Days     []*CalendarDay `json:"days"`
}

// Availability is what a doctor offers on one date. Template is only
// meaningful when Working is true.
type Availability struct {
	Working  bool
	Template scheduling.DayTemplate
	Occupied map[scheduling.Clock]bool
	Free     []scheduling.Slot
}

type DefaultAvailabilityService struct {
	ScheduleRepo    ScheduleRepository
	AppointmentRepo AppointmentRepository
	DoctorRepo      DoctorRepository
}

func NewAvailabilityService(schedRepo ScheduleRepository, apptRepo AppointmentRepository, doctorRepo DoctorRepository) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{ScheduleRepo: schedRepo, AppointmentRepo: apptRepo, DoctorRepo: doctorRepo}
}

// Resolve computes the free slots of a doctor on a date straight from the
// store. It is never cached: booking calls it again right before writing.
func (a *DefaultAvailabilityService) Resolve(ctx context.Context, doctorID string, date time.Time) (*Availability, error) {
	stored, err := a.ScheduleRepo.FindByDoctorAndDay(ctx, doctorID, scheduling.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if stored == nil || !stored.IsEnabled {
		return &Availability{Working: false, Free: []scheduling.Slot{}}, nil
	}

	tpl, err := stored.DayTemplate()
	if err != nil {
		return nil, fmt.Errorf("template %s is corrupt: %w", stored.ID, err)
	}

	taken, err := a.AppointmentRepo.FindOccupiedSlots(ctx, doctorID, date.Format(scheduling.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	occupied := toClockSet(taken)
	return &Availability{
		Working:  true,
		Template: tpl,
		Occupied: occupied,
		Free:     scheduling.FreeSlots(tpl, occupied),
	}, nil
}

func (a *DefaultAvailabilityService) GetAvailability(ctx context.Context, doctorID, rawDate string) (*AvailabilityResponse, apierror.ErrorResponse) {
	date, err := scheduling.ParseDate(rawDate)
	if err != nil {
		return nil, apierror.NewInvalidParamError("date", "must be a date in YYYY-MM-DD format")
	}

	if apierr := a.requireDoctor(ctx, doctorID); apierr != nil {
		return nil, apierr
	}

	avail, err := a.Resolve(ctx, doctorID, date)
	if err != nil {
		log.Errorf("failed to resolve availability of doctor %s on %s: %v", doctorID, rawDate, err)
		return nil, apierror.InternalServerError
	}

	resp := &AvailabilityResponse{
		Success:        true,
		DoctorID:       doctorID,
		Date:           rawDate,
		AvailableSlots: toSlotResponses(avail.Free),
	}
	if !avail.Working {
		resp.Reason = ReasonNotWorkingDay
	}
	return resp, nil
}

// GetCalendar summarises a month for a doctor: one entry per day with the
// number of free slots, using two queries for the whole month.
func (a *DefaultAvailabilityService) GetCalendar(ctx context.Context, doctorID, month string) (*CalendarResponse, apierror.ErrorResponse) {
	monthStart, monthEnd, err := parseMonth(month)
	if err != nil {
		return nil, apierror.NewInvalidParamError("month", "must be a month in YYYY-MM format")
	}

	if apierr := a.requireDoctor(ctx, doctorID); apierr != nil {
		return nil, apierr
	}

	stored, err := a.ScheduleRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to load templates of doctor %s: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}

	week := make(map[scheduling.Weekday]scheduling.DayTemplate, len(stored))
	for _, s := range stored {
		if !s.IsEnabled {
			continue
		}
		tpl, err := s.DayTemplate()
		if err != nil {
			log.Errorf("template %s of doctor %s is corrupt: %v", s.ID, doctorID, err)
			return nil, apierror.InternalServerError
		}
		week[tpl.Day] = tpl
	}

	taken, err := a.AppointmentRepo.FindOccupiedInRange(ctx, doctorID,
		monthStart.Format(scheduling.DateLayout), monthEnd.Format(scheduling.DateLayout))
	if err != nil {
		log.Errorf("failed to fetch appointments of doctor %s for %s: %v", doctorID, month, err)
		return nil, apierror.InternalServerError
	}

	days := make([]*CalendarDay, 0, 31)
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format(scheduling.DateLayout)
		day := &CalendarDay{Date: key, DayOfWeek: string(scheduling.WeekdayOf(d))}
		if tpl, ok := week[scheduling.WeekdayOf(d)]; ok {
			day.Working = true
			day.FreeSlots = len(scheduling.FreeSlots(tpl, toClockSet(taken[key])))
		}
		days = append(days, day)
	}

	return &CalendarResponse{DoctorID: doctorID, Month: month, Days: days}, nil
}

func (a *DefaultAvailabilityService) requireDoctor(ctx context.Context, doctorID string) apierror.ErrorResponse {
	if strings.TrimSpace(doctorID) == "" {
		return apierror.NewMissingParamError("doctorId")
	}
	doctor, err := a.DoctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", doctorID, err)
		return apierror.InternalServerError
	}
	if doctor == nil {
		return apierror.DoctorNotFoundError
	}
	return nil
}

// parseMonth takes "YYYY-MM" and returns the first day of that month and
// of the next one, as local dates.
func parseMonth(month string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return t, t.AddDate(0, 1, 0), nil
}

func toClockSet(slots []string) map[scheduling.Clock]bool {
	set := make(map[scheduling.Clock]bool, len(slots))
	for _, s := range slots {
		if c, err := scheduling.ParseClock(s); err == nil {
			set[c] = true
		}
	}
	return set
}

func toSlotResponses(slots []scheduling.Slot) []*SlotResponse {
	resp := make([]*SlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = &SlotResponse{Start: s.Start.String(), End: s.End.String()}
	}
	return resp
}
