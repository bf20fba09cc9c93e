package routes_test

import (
	"carebook/cmd/internal/domain/db"
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/routes"
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/testutil"
	"carebook/cmd/internal/utils/validators"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	e       *echo.Echo
	doctor  *entity.Doctor
	patient *entity.Patient
}

func newServer(t *testing.T) *server {
	t.Helper()
	gdb := testutil.OpenDB(t)

	apptRepo := repository.NewAppointmentRepository(gdb)
	doctorRepo := repository.NewDoctorRepository(gdb)
	patientRepo := repository.NewPatientRepository(gdb)
	schedRepo := repository.NewScheduleRepository(gdb)
	validate := validators.New()

	availService := service.NewAvailabilityService(schedRepo, apptRepo, doctorRepo)
	apptService := service.NewAppointmentService(apptRepo, doctorRepo, patientRepo, availService, validate)
	apptService.Now = func() time.Time { return time.Date(2029, 12, 31, 12, 0, 0, 0, time.Local) }

	e := echo.New()
	routes.Register(e, &routes.Routes{
		Appointments: routes.NewAppointmentDefault(apptService),
		Availability: routes.NewAvailabilityDefault(availService),
		Schedules:    routes.NewScheduleDefault(service.NewScheduleService(schedRepo, doctorRepo, validate)),
		Directory:    routes.NewDirectoryDefault(service.NewDirectoryService(doctorRepo, patientRepo, validate)),
		Ping:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	testutil.CreateTemplate(t, gdb, testutil.MondayMorning(doc.ID))
	return &server{e: e, doctor: doc, patient: testutil.CreatePatient(t, gdb, "Ann")}
}

func (s *server) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *server) bookingBody(slot string) string {
	return `{"doctorId":"` + s.doctor.ID + `","patientId":"` + s.patient.ID + `","appointmentDate":"2030-01-07","slot":"` + slot + `","appointmentType":"Consultation"}`
}

func slotStarts(body map[string]any) []string {
	var out []string
	for _, s := range body["availableSlots"].([]any) {
		out = append(out, s.(map[string]any)["start"].(string))
	}
	return out
}

func TestAvailabilityAndBooking(t *testing.T) {
	s := newServer(t)
	availURL := "/api/availability?doctorId=" + s.doctor.ID + "&date=2030-01-07"

	code, body := s.do(t, http.MethodGet, availURL, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{"09:00", "09:30", "10:30"}, slotStarts(body))

	code, body = s.do(t, http.MethodPost, "/api/appointments", s.bookingBody("09:30"))
	require.Equal(t, http.StatusCreated, code, body)
	appt := body["appointment"].(map[string]any)
	assert.Equal(t, "Scheduled", appt["status"])

	code, body = s.do(t, http.MethodGet, availURL, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"09:00", "10:30"}, slotStarts(body))

	code, body = s.do(t, http.MethodPost, "/api/appointments", s.bookingBody("09:30"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SlotUnavailable", body["error"])
	assert.Equal(t, false, body["success"])

	code, body = s.do(t, http.MethodPost, "/api/appointments", s.bookingBody("09:15"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "InvalidSlot", body["error"])
}

func TestAvailability_NotWorkingDay(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodGet, "/api/availability?doctorId="+s.doctor.ID+"&date=2030-01-13", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["availableSlots"])
	assert.Equal(t, "NotWorkingDay", body["reason"])
}

func TestAvailability_MissingParams(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodGet, "/api/availability?date=2030-01-07", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MissingParam", body["error"])

	code, _ = s.do(t, http.MethodGet, "/api/availability?doctorId=nobody&date=2030-01-07", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAppointmentStatusRoutes(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodPost, "/api/appointments", s.bookingBody("09:00"))
	require.Equal(t, http.StatusCreated, code)
	id := body["appointment"].(map[string]any)["id"].(string)

	code, body = s.do(t, http.MethodPatch, "/api/appointments/"+id+"/status", `{"status":"Confirmed"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Confirmed", body["status"])

	code, body = s.do(t, http.MethodPatch, "/api/appointments/"+id+"/status", `{"status":"Scheduled"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "InvalidTransition", body["error"])

	code, body = s.do(t, http.MethodDelete, "/api/appointments/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Cancelled", body["status"])

	code, body = s.do(t, http.MethodGet, "/api/appointments?doctorId="+s.doctor.ID+"&status=Cancelled", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["appointments"], 1)

	code, _ = s.do(t, http.MethodGet, "/api/appointments/unknown", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMalformedBody(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodPost, "/api/appointments", `{"doctorId":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MalformedBody", body["error"])
}

func TestScheduleRoutes(t *testing.T) {
	s := newServer(t)

	payload := `{"doctorId":"` + s.doctor.ID + `","workingDays":[
		{"dayOfWeek":"Tuesday","startTime":"09:00","endTime":"12:00","slotDuration":45,"breaks":[]}
	]}`
	code, body := s.do(t, http.MethodPost, "/api/schedule", payload)
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(t, http.MethodGet, "/api/schedule/"+s.doctor.ID, "")
	require.Equal(t, http.StatusOK, code)
	days := body["workingDays"].([]any)
	require.Len(t, days, 1)
	assert.Equal(t, "Tuesday", days[0].(map[string]any)["dayOfWeek"])

	bad := `{"doctorId":"` + s.doctor.ID + `","workingDays":[
		{"dayOfWeek":"Tuesday","startTime":"12:00","endTime":"09:00","slotDuration":45}
	]}`
	code, body = s.do(t, http.MethodPost, "/api/schedule", bad)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ValidationError", body["error"])
	fields := body["fields"].([]any)
	assert.Equal(t, "workingDays[0].startTime", fields[0].(map[string]any)["field"])
}

func TestCalendarRoute(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodGet, "/api/calendar?doctorId="+s.doctor.ID+"&month=2030-01", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["days"], 31)

	code, body = s.do(t, http.MethodGet, "/api/calendar?doctorId="+s.doctor.ID, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MissingParam", body["error"])
}

func TestDirectoryRoutes(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodPost, "/api/doctors", `{"name":"Cristina Yang","email":"yang@seattle.test","specialization":"Cardiology"}`)
	require.Equal(t, http.StatusCreated, code, body)
	id := body["id"].(string)

	code, body = s.do(t, http.MethodGet, "/api/doctors/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Cristina Yang", body["name"])

	code, body = s.do(t, http.MethodGet, "/api/doctors", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["doctors"], 2)

	code, _ = s.do(t, http.MethodGet, "/api/doctors/@me", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/patients", `{"name":"Leslie Knope","email":"leslie@pawnee.test"}`)
	assert.Equal(t, http.StatusCreated, code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
