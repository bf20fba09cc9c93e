package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the store is reachable.
type Pinger func(ctx context.Context) error

type Routes struct {
	Appointments *DefaultAppointmentRoute
	Availability *DefaultAvailabilityRoute
	Schedules    *DefaultScheduleRoute
	Directory    *DefaultDirectoryRoute
	Ping         Pinger
}

func Register(e *echo.Echo, r *Routes) {
	e.GET("/healthz", r.Health)

	api := e.Group("/api")

	// Appointments
	api.GET("/appointments", r.Appointments.GetAppointments)
	api.POST("/appointments", r.Appointments.CreateAppointment)
	api.GET("/appointments/:id", r.Appointments.GetAppointment)
	api.PATCH("/appointments/:id/status", r.Appointments.UpdateStatus)
	api.DELETE("/appointments/:id", r.Appointments.CancelAppointment)

	// Free slots of one day, and a month overview
	api.GET("/availability", r.Availability.GetAvailability)
	api.GET("/calendar", r.Availability.GetCalendar)

	// Weekly templates
	api.POST("/schedule", r.Schedules.UpsertSchedule)
	api.GET("/schedule/:doctorId", r.Schedules.GetSchedule)

	// Doctors and patients
	api.GET("/doctors", r.Directory.GetDoctors)
	api.POST("/doctors", r.Directory.CreateDoctor)
	api.GET("/doctors/:id", r.Directory.GetDoctor)
	api.POST("/patients", r.Directory.CreatePatient)
	api.GET("/patients/:id", r.Directory.GetPatient)
}

func (r *Routes) Health(c echo.Context) error {
	if r.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
