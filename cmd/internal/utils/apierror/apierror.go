package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes; routes render it
// with c.JSON(apierr.Code(), apierr).
type ErrorResponse interface {
	error
	Code() int
	Kind() string
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SimpleError struct {
	Status  int          `json:"-"`
	Success bool         `json:"success"`
	Err     string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *SimpleError) Error() string {
	return e.Message
}

func (e *SimpleError) Code() int {
	return e.Status
}

func (e *SimpleError) Kind() string {
	return e.Err
}

// Is matches on kind, so callers can errors.Is against the package values.
func (e *SimpleError) Is(target error) bool {
	var t *SimpleError
	if !errors.As(target, &t) {
		return false
	}
	return e.Err == t.Err
}

func newError(status int, kind, message string) *SimpleError {
	return &SimpleError{Status: status, Err: kind, Message: message}
}

func NewSimple(status int, message string) *SimpleError {
	return newError(status, strings.ReplaceAll(http.StatusText(status), " ", ""), message)
}

var (
	InternalServerError    = newError(http.StatusInternalServerError, "InternalServerError", "Something went wrong, please try again later")
	MalformedBodyError     = newError(http.StatusBadRequest, "MalformedBody", "Request body could not be parsed")
	NotFoundError          = newError(http.StatusNotFound, "NotFound", "Resource not found")
	InvalidAuthTokenError  = newError(http.StatusUnauthorized, "InvalidAuthToken", "Missing or invalid authorization token")
	DoctorNotFoundError    = newError(http.StatusNotFound, "DoctorNotFound", "Doctor not found")
	PatientNotFoundError   = newError(http.StatusNotFound, "PatientNotFound", "Patient not found")
	SlotUnavailableError   = newError(http.StatusConflict, "SlotUnavailable", "This slot has already been booked, please pick another one")
	InvalidSlotError       = newError(http.StatusUnprocessableEntity, "InvalidSlot", "This slot is not part of the doctor's working hours on that date")
	AppointmentInPastError = newError(http.StatusUnprocessableEntity, "AppointmentInPast", "Appointments cannot be booked on a past date")
	InvalidTransitionError = newError(http.StatusConflict, "InvalidTransition", "The appointment cannot move to that status")
	TerminalStatusError    = newError(http.StatusConflict, "InvalidTransition", "The appointment is already completed, cancelled or marked as no show")
	EmailInUseError        = newError(http.StatusConflict, "EmailInUse", "This email is already registered")
)

func NewMissingParamError(param string) *SimpleError {
	return newError(http.StatusBadRequest, "MissingParam", fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return newError(http.StatusBadRequest, "InvalidParam", fmt.Sprintf("Parameter '%s' must be of type %s", param, expected))
}

func NewInvalidParamError(param, message string) *SimpleError {
	return newError(http.StatusBadRequest, "InvalidParam", fmt.Sprintf("Parameter '%s' %s", param, message))
}

// NewValidationError reports a rule violated by an otherwise well-formed body.
func NewValidationError(fields ...FieldError) *SimpleError {
	e := newError(http.StatusBadRequest, "ValidationError", "Request did not pass validation")
	e.Fields = fields
	return e
}

// FromValidationError converts validator/v10 errors. Any other error is
// treated as a malformed body.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fieldPath(fe), Message: describe(fe)}
	}
	return NewValidationError(fields...)
}

// fieldPath drops the top-level struct name: "ScheduleRequest.workingDays[0].startTime"
// becomes "workingDays[0].startTime".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "isomonth":
		return "must be a month in YYYY-MM format"
	case "weekday":
		return "must be a weekday name"
	case "apptstatus":
		return "must be a known appointment status"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}
