package routes

import (
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, doctorID, date string) (*service.AvailabilityResponse, apierror.ErrorResponse)
	GetCalendar(ctx context.Context, doctorID, month string) (*service.CalendarResponse, apierror.ErrorResponse)
}

type DefaultAvailabilityRoute struct {
	AvailabilityService AvailabilityService
}

func NewAvailabilityDefault(availService AvailabilityService) *DefaultAvailabilityRoute {
	return &DefaultAvailabilityRoute{AvailabilityService: availService}
}

// GetAvailability answers ?doctorId=...&date=YYYY-MM-DD.
func (a *DefaultAvailabilityRoute) GetAvailability(c echo.Context) error {
	doctorID := strings.TrimSpace(c.QueryParam("doctorId"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("doctorId"))
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("date"))
	}

	avail, apierr := a.AvailabilityService.GetAvailability(c.Request().Context(), doctorID, date)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, avail)
}

// GetCalendar answers ?doctorId=...&month=YYYY-MM.
func (a *DefaultAvailabilityRoute) GetCalendar(c echo.Context) error {
	doctorID := strings.TrimSpace(c.QueryParam("doctorId"))
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("doctorId"))
	}
	month := strings.TrimSpace(c.QueryParam("month"))
	if month == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("month"))
	}

	calendar, apierr := a.AvailabilityService.GetCalendar(c.Request().Context(), doctorID, month)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, calendar)
}
