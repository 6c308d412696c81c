package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"hazardsync/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	RegisterCustomValidations(validate)
}

// Check validates s and converts the first failing field into an *e.ValidationError.
func Check(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return e.NewValidationError(fe.Field(), reason(fe))
	}
	return fmt.Errorf("%v: %w", err, e.ErrValidation)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "lat":
		return "latitude must be within -90..90"
	case "lng":
		return "longitude must be within -180..180"
	case "contact":
		return "must be an email address or phone number"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
