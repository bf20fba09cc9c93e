package service

import (
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"carebook/cmd/internal/utils"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type BreakRequest struct {
	BreakStart string `json:"breakStart" validate:"required,hhmm"`
	BreakEnd   string `json:"breakEnd" validate:"required,hhmm"`
}

type WorkingDayRequest struct {
	DayOfWeek    string          `json:"dayOfWeek" validate:"required,weekday"`
	IsEnabled    *bool           `json:"isEnabled"`
	StartTime    string          `json:"startTime" validate:"required,hhmm"`
	EndTime      string          `json:"endTime" validate:"required,hhmm"`
	SlotDuration int             `json:"slotDuration" validate:"gt=0,lte=1440"`
	Breaks       []*BreakRequest `json:"breaks" validate:"omitempty,dive,required"`
}

type ScheduleRequest struct {
	DoctorID    string               `json:"doctorId" validate:"required,max=64"`
	WorkingDays []*WorkingDayRequest `json:"workingDays" validate:"omitempty,dive,required"`
}

type BreakResponse struct {
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

type WorkingDayResponse struct {
	DayOfWeek    string           `json:"dayOfWeek"`
	IsEnabled    bool             `json:"isEnabled"`
	StartTime    string           `json:"startTime"`
	EndTime      string           `json:"endTime"`
	SlotDuration int              `json:"slotDuration"`
	Breaks       []*BreakResponse `json:"breaks"`
	UpdatedAt    string           `json:"updatedAt"`
}

type ScheduleResponse struct {
	DoctorID    string                `json:"doctorId"`
	WorkingDays []*WorkingDayResponse `json:"workingDays"`
}

type DefaultScheduleService struct {
	ScheduleRepo ScheduleRepository
	DoctorRepo   DoctorRepository
	Validate     *validator.Validate
}

func NewScheduleService(schedRepo ScheduleRepository, doctorRepo DoctorRepository, validate *validator.Validate) *DefaultScheduleService {
	return &DefaultScheduleService{ScheduleRepo: schedRepo, DoctorRepo: doctorRepo, Validate: validate}
}

// UpsertSchedule replaces the doctor's whole week. Weekdays missing from
// the request stop being working days. Existing appointments are kept even
// if their slot no longer fits the new template.
func (s *DefaultScheduleService) UpsertSchedule(ctx context.Context, req *ScheduleRequest) (*ScheduleResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	tpls, apierr := toTemplates(req)
	if apierr != nil {
		return nil, apierr
	}

	doctor, err := s.DoctorRepo.FindByID(ctx, req.DoctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", req.DoctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil {
		return nil, apierror.DoctorNotFoundError
	}

	if err := s.ScheduleRepo.ReplaceForDoctor(ctx, req.DoctorID, tpls); err != nil {
		log.Errorf("failed to replace schedule of doctor %s: %v", req.DoctorID, err)
		return nil, apierror.InternalServerError
	}
	return toScheduleResponse(req.DoctorID, tpls), nil
}

func (s *DefaultScheduleService) GetSchedule(ctx context.Context, doctorID string) (*ScheduleResponse, apierror.ErrorResponse) {
	doctor, err := s.DoctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %s: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil {
		return nil, apierror.DoctorNotFoundError
	}

	tpls, err := s.ScheduleRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		log.Errorf("failed to load schedule of doctor %s: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}
	return toScheduleResponse(doctorID, tpls), nil
}

func toTemplates(req *ScheduleRequest) ([]*entity.WeeklyTemplate, apierror.ErrorResponse) {
	now := utils.NowUTC()
	seen := make(map[scheduling.Weekday]bool, len(req.WorkingDays))
	tpls := make([]*entity.WeeklyTemplate, 0, len(req.WorkingDays))

	for i, wd := range req.WorkingDays {
		field := fmt.Sprintf("workingDays[%d]", i)

		day, _ := scheduling.ParseWeekday(wd.DayOfWeek)
		if seen[day] {
			return nil, apierror.NewValidationError(apierror.FieldError{
				Field:   field + ".dayOfWeek",
				Message: fmt.Sprintf("%s appears more than once", day),
			})
		}
		seen[day] = true

		dt, err := toDayTemplate(day, wd)
		if err != nil {
			return nil, apierror.NewValidationError(apierror.FieldError{Field: field, Message: err.Error()})
		}
		if err := dt.Validate(); err != nil {
			var terr *scheduling.TemplateError
			if errors.As(err, &terr) {
				return nil, apierror.NewValidationError(apierror.FieldError{Field: field + "." + terr.Field, Message: terr.Message})
			}
			return nil, apierror.NewValidationError(apierror.FieldError{Field: field, Message: err.Error()})
		}

		id := uuid.NewString()
		tpl := &entity.WeeklyTemplate{
			ID:           id,
			DoctorID:     req.DoctorID,
			DayOfWeek:    day,
			IsEnabled:    dt.Enabled,
			StartTime:    dt.Start.String(),
			EndTime:      dt.End.String(),
			SlotDuration: dt.SlotMinutes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, b := range dt.SortedBreaks() {
			tpl.Breaks = append(tpl.Breaks, entity.TemplateBreak{TemplateID: id, BreakStart: b.Start.String(), BreakEnd: b.End.String()})
		}
		tpls = append(tpls, tpl)
	}
	return tpls, nil
}

func toDayTemplate(day scheduling.Weekday, wd *WorkingDayRequest) (scheduling.DayTemplate, error) {
	start, err := scheduling.ParseClock(wd.StartTime)
	if err != nil {
		return scheduling.DayTemplate{}, err
	}
	end, err := scheduling.ParseClock(wd.EndTime)
	if err != nil {
		return scheduling.DayTemplate{}, err
	}

	breaks := make([]scheduling.Break, len(wd.Breaks))
	for i, b := range wd.Breaks {
		bs, err := scheduling.ParseClock(b.BreakStart)
		if err != nil {
			return scheduling.DayTemplate{}, err
		}
		be, err := scheduling.ParseClock(b.BreakEnd)
		if err != nil {
			return scheduling.DayTemplate{}, err
		}
		breaks[i] = scheduling.Break{Start: bs, End: be}
	}

	return scheduling.DayTemplate{
		Day:         day,
		Enabled:     wd.IsEnabled == nil || *wd.IsEnabled,
		Start:       start,
		End:         end,
		SlotMinutes: wd.SlotDuration,
		Breaks:      breaks,
	}, nil
}

func toScheduleResponse(doctorID string, tpls []*entity.WeeklyTemplate) *ScheduleResponse {
	sorted := slices.Clone(tpls)
	slices.SortFunc(sorted, func(a, b *entity.WeeklyTemplate) int {
		return slices.Index(scheduling.Week, a.DayOfWeek) - slices.Index(scheduling.Week, b.DayOfWeek)
	})

	days := make([]*WorkingDayResponse, len(sorted))
	for i, t := range sorted {
		breaks := make([]*BreakResponse, len(t.Breaks))
		for j, b := range t.Breaks {
			breaks[j] = &BreakResponse{BreakStart: b.BreakStart, BreakEnd: b.BreakEnd}
		}
		days[i] = &WorkingDayResponse{
			DayOfWeek:    string(t.DayOfWeek),
			IsEnabled:    t.IsEnabled,
			StartTime:    t.StartTime,
			EndTime:      t.EndTime,
			SlotDuration: t.SlotDuration,
			Breaks:       breaks,
			UpdatedAt:    utils.FormatEpoch(t.UpdatedAt),
		}
	}
	return &ScheduleResponse{DoctorID: doctorID, WorkingDays: days}
}
