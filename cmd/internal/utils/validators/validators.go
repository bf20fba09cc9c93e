package validators

import (
	"carebook/cmd/internal/domain/scheduling"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the scheduling tags registered and field
// names reported by their json tag.
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	Register(validate)
	return validate
}

func Register(validate *validator.Validate) {
	validate.RegisterTagNameFunc(jsonName)
	_ = validate.RegisterValidation("hhmm", IsClock)
	_ = validate.RegisterValidation("isodate", IsIsoDate)
	_ = validate.RegisterValidation("isomonth", IsIsoMonth)
	_ = validate.RegisterValidation("weekday", IsWeekday)
	_ = validate.RegisterValidation("apptstatus", IsAppointmentStatus)
}

func IsClock(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseClock(fl.Field().String())
	return err == nil
}

func IsIsoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(scheduling.DateLayout, fl.Field().String())
	return err == nil
}

func IsIsoMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01", fl.Field().String())
	return err == nil
}

func IsWeekday(fl validator.FieldLevel) bool {
	_, ok := scheduling.ParseWeekday(fl.Field().String())
	return ok
}

func IsAppointmentStatus(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseStatus(fl.Field().String())
	return err == nil
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
