package routes

import (
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ScheduleService interface {
	UpsertSchedule(ctx context.Context, req *service.ScheduleRequest) (*service.ScheduleResponse, apierror.ErrorResponse)
	GetSchedule(ctx context.Context, doctorID string) (*service.ScheduleResponse, apierror.ErrorResponse)
}

type DefaultScheduleRoute struct {
	ScheduleService ScheduleService
}

func NewScheduleDefault(schedService ScheduleService) *DefaultScheduleRoute {
	return &DefaultScheduleRoute{ScheduleService: schedService}
}

func (s *DefaultScheduleRoute) UpsertSchedule(c echo.Context) error {
	var req service.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	schedule, apierr := s.ScheduleService.UpsertSchedule(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"success": true, "schedule": schedule}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultScheduleRoute) GetSchedule(c echo.Context) error {
	doctorID := strings.TrimSpace(c.Param("doctorId"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("doctorId"))
	}

	schedule, apierr := s.ScheduleService.GetSchedule(c.Request().Context(), doctorID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, schedule)
}
