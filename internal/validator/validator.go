package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRgx = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validator.RegisterValidation("seatid", validateSeatID)
	validator.RegisterValidation("phone", validatePhone)
	validator.RegisterValidation("reference", validateReference)

	return validator
}

func validateSeatID(fl validator.FieldLevel) bool {
	_, _, err := domain.ParseSeatID(domain.SeatID(strings.TrimSpace(fl.Field().String())))
	return err == nil
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.TrimSpace(fl.Field().String())

	digits := 0
	for _, ch := range phone {
		if ch >= '0' && ch <= '9' {
			digits++
		}
	}

	return phoneRgx.MatchString(phone) && digits >= 6 && digits <= 15
}

func validateReference(fl validator.FieldLevel) bool {
	ref := fl.Field().String()
	return strings.HasPrefix(ref, domain.ReferencePrefix) && len(ref) > len(domain.ReferencePrefix)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at most %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "seatid":
		return "must be a seat identifier such as A-1"
	case "phone":
		return "must be a valid phone number"
	case "reference":
		return "must be a booking reference number"
	default:
		return "is invalid"
	}
}
